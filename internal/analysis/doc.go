// Package analysis looks at sampled diagnostic series after a run.
//
//   - [Detrend]: removes the least-squares line from a series
//   - [PowerSpectrum]: magnitude spectrum of a series of any length
//   - [DominantFrequency]: strongest non-DC component in Hz
//   - [Summarize]: mean, spread and range of a series
//
// Samples are taken every sample interval, so the spacing passed to the
// spectrum functions is interval·tau seconds.
//
//	ke := analysis.Column(reports, analysis.KineticEnergy)
//	f, power := analysis.DominantFrequency(analysis.Detrend(ke), spacing)
package analysis
