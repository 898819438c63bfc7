// Package domain defines the core business entities of the tours API:
// tours, users, and the roles that gate access to them. Entities are
// constructed and mutated through explicit functions that validate and
// derive dependent fields (slugs, password-change timestamps), keeping
// persistence side effects out of the entity definitions.
package domain
