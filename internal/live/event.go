package live

import (
	"github.com/brixwork/portal-server/internal/model"
)

// Update is one fanout payload. Exactly one entity field is set, matching the
// Type discriminator; construct values through the helpers below rather than
// by hand.
type Update struct {
	Type    model.UpdateType  `json:"type"`
	Job     *model.Job        `json:"job,omitempty"`
	File    *model.JobFile    `json:"file,omitempty"`
	FileID  string            `json:"fileId,omitempty"`
	Message *model.JobMessage `json:"message,omitempty"`
	Note    *model.JobNote    `json:"note,omitempty"`
}

func JobChanged(job *model.Job) Update {
	return Update{Type: model.UpdateJobChanged, Job: job}
}

func FileAdded(file *model.JobFile) Update {
	return Update{Type: model.UpdateNewFile, File: file}
}

func FileDeleted(fileID string) Update {
	return Update{Type: model.UpdateDeletedFile, FileID: fileID}
}

func MessageAdded(msg *model.JobMessage) Update {
	return Update{Type: model.UpdateNewMessage, Message: msg}
}

func NoteAdded(note *model.JobNote) Update {
	return Update{Type: model.UpdateNewNote, Note: note}
}
