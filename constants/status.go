package constants

// JobStatus is the canonical status for rows in the extraction job log.
type JobStatus string

// Stable values (store these exact strings in the job log).
const (
	JobStatusQueued     JobStatus = "QUEUED"      // queued for processing
	JobStatusRunning    JobStatus = "RUNNING"     // in progress
	JobStatusExtractOK  JobStatus = "EXTRACT_OK"  // stage 1 completed (text extracted)
	JobStatusValidateOK JobStatus = "VALIDATE_OK" // stage 2 completed (fields validated)
	JobStatusFailed     JobStatus = "FAILED"      // terminal failure
)
