package model

// JobStage is the ordered job lifecycle.
type JobStage string

const (
	StagePlanning         JobStage = "planning"
	StageMaterialsOrdered JobStage = "materials_ordered"
	StageInProgress       JobStage = "in_progress"
	StageFinishing        JobStage = "finishing"
	StageComplete         JobStage = "complete"
)

// JobStages lists the lifecycle in order.
var JobStages = []JobStage{
	StagePlanning,
	StageMaterialsOrdered,
	StageInProgress,
	StageFinishing,
	StageComplete,
}

func (s JobStage) Valid() bool {
	for _, stage := range JobStages {
		if s == stage {
			return true
		}
	}
	return false
}

// UpdateType discriminates live update payloads pushed to portal viewers.
type UpdateType string

const (
	UpdateJobChanged  UpdateType = "job_update"
	UpdateNewFile     UpdateType = "new_file"
	UpdateNewMessage  UpdateType = "new_message"
	UpdateNewNote     UpdateType = "new_note"
	UpdateDeletedFile UpdateType = "deleted_file"
)
