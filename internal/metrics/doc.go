// Package metrics computes the ensemble diagnostics: kinetic energy, the
// virial-style stress estimate, net momentum and the temperature proxy.
// Sampler runs them every sample interval and refreshes the trace.
package metrics
