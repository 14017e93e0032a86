// Package laplace relaxes the discretized Laplace equation ∇²P = 0 on a
// regular grid using Jacobi iterations.
//
// Cells that are non-zero in the input are conductors held at a fixed
// potential. Every sweep reads a snapshot of the previous iterate and writes
// a separate buffer, so rows can be updated by independent goroutines and
// results do not depend on the number of workers.
//
// Cartesian grids use the five point stencil with unequal spacing. Polar
// grids (q1 = r, q2 = θ) use the stencil of the polar Laplacian and set the
// r = 0 row to the mean of its outer neighbour row, where the stencil is
// singular.
package laplace
