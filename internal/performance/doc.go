// Package performance derives flow rate and a condition assessment from nameplate attributes.
//
// The efficiency score is a placeholder heuristic, not a physics model: a baseline of 85 is
// nudged by attribute ranges that look nominal for common motor-driven equipment, perturbed
// by a bounded jitter, and clamped to 60–100. Condition thresholds: Good ≥85,
// Needs Service 70–84, Critical <70.
package performance
