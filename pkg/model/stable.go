package model

import "time"

// Stable is the tenant unit. Every other collection is scoped by stable_id.
type Stable struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string         `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Cities     []string       `json:"cities" bson:"cities" validate:"required,min=1,max=50,dive,required"`
	Labels     []string       `json:"labels" bson:"labels" validate:"required,min=1,max=10,dive,required"`
	OwnerPhone string         `json:"owner_phone" bson:"owner_phone" validate:"required,e164"`
	Members    []StableMember `json:"members,omitempty" bson:"members" validate:"omitempty,max=200,dive"`
	TimeZone   string         `json:"time_zone,omitempty" bson:"time_zone" validate:"omitempty,timezone"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type StableMember struct {
	Name     string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Phone    string    `json:"phone" bson:"phone" validate:"required,e164"`
	Role     string    `json:"role" bson:"role" validate:"required,oneof=owner admin member"`
	JoinedAt time.Time `json:"joined_at" bson:"joined_at" validate:"omitempty"`
}

type StableUpdate struct {
	Name     string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Cities   *[]string `json:"cities,omitempty" validate:"omitempty,min=1,max=50,dive,required"`
	Labels   *[]string `json:"labels,omitempty" validate:"omitempty,min=1,max=10,dive,required"`
	TimeZone string    `json:"time_zone,omitempty" validate:"omitempty,timezone"`
}

// MemberRole returns the role of the member with the given phone, or an
// empty string when the phone belongs to nobody in the stable. The owner
// phone always counts as an owner even without a member record.
func (s *Stable) MemberRole(phone string) string {
	if phone == "" {
		return ""
	}
	if phone == s.OwnerPhone {
		return "owner"
	}
	for _, m := range s.Members {
		if m.Phone == phone {
			return m.Role
		}
	}
	return ""
}
