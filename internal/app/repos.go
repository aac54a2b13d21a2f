package app

import (
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	Activity     repos.ActivityRepo
	Room         repos.RoomRepo
	Membership   repos.MembershipRepo
	Post         repos.PostRepo
	Intervention repos.InterventionRepo
	NudgeState   repos.NudgeStateRepo
	Agent        repos.AgentRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		Activity:     repos.NewActivityRepo(db, log),
		Room:         repos.NewRoomRepo(db, log),
		Membership:   repos.NewMembershipRepo(db, log),
		Post:         repos.NewPostRepo(db, log),
		Intervention: repos.NewInterventionRepo(db, log),
		NudgeState:   repos.NewNudgeStateRepo(db, log),
		Agent:        repos.NewAgentRepo(db, log),
	}
}
