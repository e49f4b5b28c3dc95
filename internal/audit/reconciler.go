package audit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/campuslaunch/campus-launch-backend/internal/docstore"
)

// Reconciler sweeps for the drift a partial join/leave leaves behind:
// a user whose currentProject points at a project that does not list
// them, or a team member with no matching currentProject. Findings are
// recorded for manual cleanup.
type Reconciler struct {
	store    docstore.Store
	recorder Recorder
	log      zerolog.Logger
}

func NewReconciler(store docstore.Store, recorder Recorder, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		store:    store,
		recorder: recorder,
		log:      log.With().Str("component", "reconciler").Logger(),
	}
}

// Start schedules the nightly sweep at 03:00.
func (r *Reconciler) Start() (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := r.Sweep(ctx); err != nil {
			r.log.Error().Err(err).Msg("reconciliation sweep failed")
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	r.log.Info().Msg("reconciliation sweep scheduled (nightly at 03:00)")
	return c, nil
}

// Sweep cross-checks users.currentProject against projects.team and
// records each inconsistent pair.
func (r *Reconciler) Sweep(ctx context.Context) error {
	users, err := r.store.ListAll(ctx, "users")
	if err != nil {
		return err
	}
	projects, err := r.store.ListAll(ctx, "projects")
	if err != nil {
		return err
	}

	teamsByProject := make(map[string]map[string]bool, len(projects))
	for _, p := range projects {
		members := make(map[string]bool)
		if team, ok := p.Data["team"].([]any); ok {
			for _, m := range team {
				if uid, ok := m.(string); ok {
					members[uid] = true
				}
			}
		}
		teamsByProject[p.ID] = members
	}

	found := 0
	for _, u := range users {
		current, _ := u.Data["currentProject"].(string)
		if current == "" {
			continue
		}

		team, exists := teamsByProject[current]
		if !exists {
			found++
			r.recorder.RecordPartialWrite(ctx, Record{
				Entity:     "user",
				EntityID:   u.ID,
				UserID:     u.ID,
				FailedStep: "currentProject references missing project " + current,
			})
			continue
		}
		if !team[u.ID] {
			found++
			r.recorder.RecordPartialWrite(ctx, Record{
				Entity:     "project",
				EntityID:   current,
				UserID:     u.ID,
				FailedStep: "team missing user with currentProject set",
			})
		}
	}

	r.log.Info().Int("users", len(users)).Int("drift", found).Msg("reconciliation sweep complete")
	return nil
}
