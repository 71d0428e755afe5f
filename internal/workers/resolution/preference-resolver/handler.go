// Package preferenceresolver merges diner preferences from the query, the
// requesting user's profile, and the profiles of a referenced group.
package preferenceresolver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"dining-search/internal/common/completion"
	"dining-search/internal/common/logger"
	"dining-search/internal/common/metrics"
	"dining-search/internal/models"
)

const (
	Component = "preference-resolver"

	disambiguationMessage = "Which group would you like to search for?"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.MemberPreferences, error)
}

type GroupStore interface {
	GetGroup(ctx context.Context, nameOrID string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]models.GroupSummary, error)
}

type Resolver struct {
	config    *Config
	extractor completion.NLExtractor
	decoder   *completion.Decoder
	profiles  ProfileStore
	groups    GroupStore
	pool      *ants.Pool
	logger    logger.Logger
}

func NewResolver(config *Config, extractor completion.NLExtractor, profiles ProfileStore, groups GroupStore, log logger.Logger) (*Resolver, error) {
	if config == nil {
		config = LoadConfig()
	}
	pool, err := ants.NewPool(config.Workers)
	if err != nil {
		return nil, fmt.Errorf("create member lookup pool: %w", err)
	}
	return &Resolver{
		config:    config,
		extractor: extractor,
		decoder:   completion.NewDecoder(fieldsSchema),
		profiles:  profiles,
		groups:    groups,
		pool:      pool,
		logger:    logger.Component(log, Component),
	}, nil
}

// Close releases the member lookup pool.
func (r *Resolver) Close() {
	r.pool.Release()
}

// Resolve returns the merged preference set, or a disambiguation listing the
// user's groups when the query carries a bare @. It never fails; lookup and
// extraction problems degrade to empty values.
func (r *Resolver) Resolve(ctx context.Context, query, userID string) (models.PreferenceSet, *models.GroupDisambiguation) {
	start := time.Now()
	defer func() {
		metrics.ResolverDuration.WithLabelValues(Component).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	if isBareMarker(query) {
		return models.EmptyPreferences(), r.disambiguate(ctx, userID)
	}

	result := completion.Extract[preferenceFields](ctx, r.extractor, r.decoder, systemPrompt, query)
	if result.IsMalformed() {
		metrics.ResolverDegraded.WithLabelValues(Component, "extraction").Inc()
		r.logger.Warn("preference extraction degraded", map[string]interface{}{
			"userId": userID,
			"error":  result.Err().Error(),
		})
		prefs := models.EmptyPreferences()
		prefs.Error = fmt.Sprintf("preference extraction failed: %v", result.Err())
		return prefs, nil
	}
	fields, _ := result.Get()

	groupName := ""
	if fields.Group != nil {
		groupName = strings.TrimPrefix(strings.TrimSpace(*fields.Group), "@")
	}
	if groupName == "" {
		groupName, _ = groupMarker(query)
	}

	dietary := models.NewDietarySet()
	excluded := models.NewCuisineSet(fields.ExcludedCuisines...)

	prefs := models.EmptyPreferences()
	if groupName != "" {
		ref, members := r.groupProfiles(ctx, groupName)
		prefs.Group = ref
		for _, m := range members {
			dietary.Add(m.DietaryRequirements...)
			excluded.Add(m.ExcludedCuisines...)
		}
	} else if own := r.profile(ctx, userID); own != nil {
		dietary.Add(own.DietaryRequirements...)
		excluded.Add(own.ExcludedCuisines...)
	}

	prefs.DietaryRequirements = dietary.Sorted()
	prefs.ExcludedCuisines = excluded.Sorted()
	for _, c := range fields.CuisineTypes {
		if c = strings.TrimSpace(c); c != "" {
			prefs.CuisineTypes = append(prefs.CuisineTypes, c)
		}
	}
	if fields.MealTime != nil {
		prefs.MealTime = models.ParseMealTime(strings.ToLower(strings.TrimSpace(*fields.MealTime)))
	}
	return prefs, nil
}

func (r *Resolver) disambiguate(ctx context.Context, userID string) *models.GroupDisambiguation {
	groups, err := r.groups.ListGroupsForUser(ctx, userID)
	if err != nil {
		metrics.ResolverDegraded.WithLabelValues(Component, "group_list").Inc()
		r.logger.Warn("group listing failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		groups = []models.GroupSummary{}
	}
	return &models.GroupDisambiguation{
		AvailableGroups: groups,
		Message:         disambiguationMessage,
	}
}

func (r *Resolver) profile(ctx context.Context, userID string) *models.MemberPreferences {
	p, err := r.profiles.GetProfile(ctx, userID)
	if err != nil {
		r.logger.Warn("profile lookup failed", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil
	}
	return p
}

// groupProfiles resolves a group and fetches every member's profile
// concurrently. Missing groups and failed lookups contribute nothing.
func (r *Resolver) groupProfiles(ctx context.Context, nameOrID string) (*models.GroupRef, []*models.MemberPreferences) {
	ref := &models.GroupRef{Name: nameOrID}

	group, err := r.groups.GetGroup(ctx, nameOrID)
	if err != nil {
		metrics.ResolverDegraded.WithLabelValues(Component, "group_lookup").Inc()
		r.logger.Warn("group lookup failed", map[string]interface{}{
			"group": nameOrID,
			"error": err.Error(),
		})
		return ref, nil
	}
	ref.ID, ref.Name = group.ID, group.Name

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		members = make([]*models.MemberPreferences, 0, len(group.MemberIDs))
	)
	for _, memberID := range group.MemberIDs {
		memberID := memberID
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if p := r.profile(ctx, memberID); p != nil {
				mu.Lock()
				members = append(members, p)
				mu.Unlock()
			}
		}
		if err := r.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	r.logger.Debug("group preferences merged", map[string]interface{}{
		"group":   ref.Name,
		"members": len(group.MemberIDs),
		"found":   len(members),
	})
	return ref, members
}
