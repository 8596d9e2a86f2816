package main

import (
	"context"
	"net/http"

	"github.com/playhub-lab/backend/pkg/api"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig()
	s.loadContext()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()
	s.loadEndpoints()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.mux,
	}

	s.logger.Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadEndpoints() {
	s.mux = http.NewServeMux()

	// Achievement API
	register(s, http.MethodPost, "/checkAchievements", s.achievementDomain.CheckAchievements)
	register(s, http.MethodPost, "/awardBadge", s.achievementDomain.AwardBadge)
	register(s, http.MethodGet, "/getEngagementScore", s.achievementDomain.GetEngagementScore)
	register(s, http.MethodGet, "/calculateEngagementScore", s.achievementDomain.CalculateEngagementScore)
	register(s, http.MethodGet, "/getUserProgress", s.achievementDomain.GetUserProgress)

	// Challenge API
	register(s, http.MethodPost, "/generateChallenges", s.challengeDomain.Generate)
	register(s, http.MethodGet, "/getChallenges", s.challengeDomain.GetByEvent)
	register(s, http.MethodPost, "/activateChallenge", s.challengeDomain.Activate)
	register(s, http.MethodPost, "/cancelChallenge", s.challengeDomain.Cancel)
	register(s, http.MethodPost, "/submitChallengeEntry", s.challengeDomain.Submit)
	register(s, http.MethodPost, "/voteOnSubmission", s.challengeDomain.Vote)
	register(s, http.MethodGet, "/getChallengeTally", s.challengeDomain.GetTally)
	register(s, http.MethodGet, "/getChallengeLeaderboard", s.challengeDomain.GetLeaderboard)
	register(s, http.MethodPost, "/endChallenge", s.challengeDomain.End)

	// Interaction API
	register(s, http.MethodPost, "/createPoll", s.interactionDomain.CreatePoll)
	register(s, http.MethodPost, "/votePoll", s.interactionDomain.VotePoll)
	register(s, http.MethodPost, "/closePoll", s.interactionDomain.ClosePoll)
	register(s, http.MethodPost, "/askQuestion", s.interactionDomain.AskQuestion)
	register(s, http.MethodPost, "/answerQuestion", s.interactionDomain.AnswerQuestion)
	register(s, http.MethodGet, "/getChallengeInteractions", s.interactionDomain.GetByChallenge)

	// Team API
	register(s, http.MethodPost, "/createTeam", s.teamDomain.Create)
	register(s, http.MethodGet, "/getTeam", s.teamDomain.Get)
	register(s, http.MethodPost, "/inviteToTeam", s.teamDomain.Invite)
	register(s, http.MethodPost, "/acceptInvitation", s.teamDomain.AcceptInvitation)
	register(s, http.MethodPost, "/declineInvitation", s.teamDomain.DeclineInvitation)
	register(s, http.MethodGet, "/getMyInvitations", s.teamDomain.GetMyInvitations)
	register(s, http.MethodPost, "/leaveTeam", s.teamDomain.Leave)
	register(s, http.MethodPost, "/updateTeamStats", s.teamDomain.UpdateStats)
	register(s, http.MethodGet, "/getTeamLeaderboard", s.teamDomain.GetLeaderboard)
	register(s, http.MethodPost, "/awardTeamAchievement", s.teamDomain.AwardAchievement)
}

func register[Request, Response any](
	s *srv, method, path string,
	handle func(context.Context, *Request) (*Response, error),
) {
	endpoint := &api.Endpoint[Request, Response]{
		Method: method,
		Path:   path,
		Handle: handle,
	}

	endpoint.Register(s.mux, s.ctx)
}
