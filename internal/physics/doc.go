// Package physics provides the Morse pair potential and its derivatives.
//
// Every pair function takes two positions a and b and returns a vector along
// the displacement a - b:
//
//   - [Morse.Energy]: U(r) along the pair direction
//   - [Morse.FirstDerivative]: the first-derivative form used by the stress diagnostic
//   - [Morse.SecondDerivative]: the second-derivative form used as acceleration
//   - [Morse.Gradient]: analytic dU/dr, for Newtonian acceleration
//
// The direction is divided by r + [Regularizer], so the self pair (a == b)
// evaluates to the zero vector instead of NaN. [PairSum] sums a pair function
// over an ensemble and then subtracts the self term explicitly.
//
// # Units
//
// Positions are meters, the well depth is joules, the mass is kilograms. The
// exponent is nondimensionalized by [ReferenceLength] (1 Å), not by r_m.
package physics
