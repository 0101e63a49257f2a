// Package textutil normalizes user-supplied names into filesystem-safe tokens.
//
// Accented letters are folded to their base form (é becomes e) before
// lowercasing, and every run of other characters collapses to one underscore.
package textutil
