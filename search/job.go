package search

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultK is the number of neighbors retrieved per query when a job does
// not set one.
const DefaultK = 5

// Job describes one search run: which index to load, which embedded
// spectra files to query with, and where to write the results.
type Job struct {
	// Index is the path to the prebuilt index file.
	Index string `yaml:"index"`

	// Embedded lists the query-vector files, searched as one concatenated
	// matrix in the given order.
	Embedded []string `yaml:"embedded"`

	// K is the number of neighbors per query; DefaultK when zero.
	K int `yaml:"k"`

	// Out is the result container path; its parent directory must exist.
	Out string `yaml:"out"`

	// Accelerate selects the index acceleration mode: auto, on or off.
	Accelerate string `yaml:"accelerate"`
}

func (j *Job) validate() error {
	if j.Index == "" {
		return fmt.Errorf("search: job has no index file")
	}
	if len(j.Embedded) == 0 {
		return fmt.Errorf("search: job has no embedded spectra files")
	}
	if j.Out == "" {
		return fmt.Errorf("search: job has no output file")
	}
	if j.K < 0 {
		return fmt.Errorf("search: k must be positive, got %d", j.K)
	}
	return nil
}

type batchFile struct {
	Jobs []Job `yaml:"jobs"`
}

// LoadJobs reads a YAML batch file of the form:
//
//	jobs:
//	  - index: library.fvi
//	    embedded: [run1.fvm, run2.fvm]
//	    k: 5
//	    out: run1_result.db
//
// Each job is validated and given the default k.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("search: reading jobs file %q: %w", path, err)
	}
	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("search: parsing jobs file %q: %v", path, err)
	}
	if len(batch.Jobs) == 0 {
		return nil, fmt.Errorf("search: jobs file %q declares no jobs", path)
	}
	for i := range batch.Jobs {
		job := &batch.Jobs[i]
		if job.K == 0 {
			job.K = DefaultK
		}
		if err := job.validate(); err != nil {
			return nil, fmt.Errorf("%v (jobs file %q, job %d)", err, path, i)
		}
	}
	return batch.Jobs, nil
}
