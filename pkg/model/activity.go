package model

import "time"

// Activity is a scheduled stable task (mucking out, feeding, fence repair)
// worth a number of workload points once completed.
type Activity struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StableID      string     `json:"stable_id" bson:"stable_id" validate:"required,mongodb"`
	Title         string     `json:"title" bson:"title" validate:"required,min=2,max=200"`
	StartTime     time.Time  `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time  `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	AssigneePhone string     `json:"assignee_phone,omitempty" bson:"assignee_phone" validate:"omitempty,e164"`
	Points        int        `json:"points" bson:"points" validate:"required,min=1,max=100"`
	Status        string     `json:"status" bson:"status" validate:"required,oneof=open done cancelled"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" bson:"completed_at" validate:"omitempty"`
	CompletedBy   string     `json:"completed_by,omitempty" bson:"completed_by" validate:"omitempty,e164"`
	Notes         string     `json:"notes,omitempty" bson:"notes" validate:"omitempty,max=2000"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ActivityUpdate struct {
	Title         string     `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	StartTime     *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty" validate:"omitempty"`
	AssigneePhone string     `json:"assignee_phone,omitempty" validate:"omitempty,e164"`
	Points        *int       `json:"points,omitempty" validate:"omitempty,min=1,max=100"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=open done cancelled"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// WorkloadEntry is one line of the fairness ledger: points credited (or
// debited, for cancellations) to a member from a completed activity or a
// reservation event.
type WorkloadEntry struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StableID    string    `json:"stable_id" bson:"stable_id" validate:"required,mongodb"`
	MemberPhone string    `json:"member_phone" bson:"member_phone" validate:"required,e164"`
	MemberName  string    `json:"member_name,omitempty" bson:"member_name" validate:"omitempty,min=2,max=100"`
	Points      int       `json:"points" bson:"points" validate:"required,min=-100,max=100"`
	Source      string    `json:"source" bson:"source" validate:"required,oneof=activity reservation"`
	SourceID    string    `json:"source_id" bson:"source_id" validate:"required"`
	RecordedAt  time.Time `json:"recorded_at" bson:"recorded_at" validate:"omitempty"`
}
