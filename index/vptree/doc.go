// Package vptree implements an exact squared-L2 index accelerated by a
// vantage-point tree. It is the in-process stand-in for moving a loaded
// index onto faster search hardware: same contract as the flat scan,
// built best-effort when the dataset is large enough to benefit.
package vptree
