package planner

// Package planner selects when to run a household load against a spot price
// forecast. It filters priced intervals down to the caller's plannable local
// time windows and picks the block of consecutive intervals with the lowest
// (or highest) total cost for the configured load profile. The package is
// pure computation: no I/O, no shared mutable state.
