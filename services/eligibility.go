package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/mike-rowan/fieldserve-api/models"
)

// JobRequirements describes what a job needs from a technician.
type JobRequirements struct {
	Date                   time.Time `json:"date"`
	StartTime              string    `json:"start_time,omitempty"` // "HH:MM", 24h
	EndTime                string    `json:"end_time,omitempty"`
	RequiredSkills         []string  `json:"required_skills"`
	RequiredCertifications []string  `json:"required_certifications"`
}

// TechnicianMatch is one evaluated technician. Eligible matches carry a
// MatchScore; ineligible ones carry the reasons they were excluded so the
// dispatcher can distinguish "never certified" from "certification lapsed".
type TechnicianMatch struct {
	TeamMember    models.TeamMember `json:"team_member"`
	Eligible      bool              `json:"eligible"`
	MatchScore    float64           `json:"match_score"`
	Reason        string            `json:"reason,omitempty"`
	MissingSkills []string          `json:"missing_skills,omitempty"`
	MissingCerts  []string          `json:"missing_certs,omitempty"`
	ExpiredCerts  []string          `json:"expired_certs,omitempty"`
}

var proficiencyWeights = map[string]float64{
	models.ProficiencyBeginner:     1,
	models.ProficiencyIntermediate: 2,
	models.ProficiencyAdvanced:     3,
	models.ProficiencyExpert:       4,
}

// EvaluateTechnician runs the eligibility checks for one technician against
// the job requirements, cheapest first: availability, then skills, then
// certifications. Empty requirement slices always pass. Pure function.
func EvaluateTechnician(member *models.TeamMember, req JobRequirements) TechnicianMatch {
	match := TechnicianMatch{TeamMember: *member}

	availability := CheckAvailability(member, req.Date, req.StartTime, req.EndTime)
	if !availability.Available {
		match.Reason = availability.Reason
		return match
	}

	skillsByID := make(map[string]models.TeamMemberSkill, len(member.Skills))
	for _, s := range member.Skills {
		skillsByID[s.SkillID] = s
	}
	for _, required := range req.RequiredSkills {
		if _, ok := skillsByID[required]; !ok {
			match.MissingSkills = append(match.MissingSkills, required)
		}
	}
	if len(match.MissingSkills) > 0 {
		match.Reason = fmt.Sprintf("missing required skills: %v", match.MissingSkills)
		return match
	}

	certsByID := make(map[string]models.TeamMemberCert, len(member.Certifications))
	for _, c := range member.Certifications {
		certsByID[c.CertID] = c
	}
	jobDay := truncateToDay(req.Date)
	for _, required := range req.RequiredCertifications {
		cert, ok := certsByID[required]
		if !ok {
			match.MissingCerts = append(match.MissingCerts, required)
			continue
		}
		// A certification expiring before the job date counts as lapsed,
		// reported separately from never-held certifications
		if cert.ExpiresAt != nil && truncateToDay(*cert.ExpiresAt).Before(jobDay) {
			match.ExpiredCerts = append(match.ExpiredCerts, required)
		}
	}
	if len(match.MissingCerts) > 0 || len(match.ExpiredCerts) > 0 {
		match.Reason = certFailureReason(match.MissingCerts, match.ExpiredCerts)
		return match
	}

	match.Eligible = true
	match.MatchScore = scoreTechnician(member, req, skillsByID)
	return match
}

func certFailureReason(missing, expired []string) string {
	switch {
	case len(missing) > 0 && len(expired) > 0:
		return fmt.Sprintf("missing certifications: %v; expired certifications: %v", missing, expired)
	case len(missing) > 0:
		return fmt.Sprintf("missing certifications: %v", missing)
	default:
		return fmt.Sprintf("expired certifications: %v", expired)
	}
}

// scoreTechnician ranks an already-eligible technician. Per matched required
// skill: proficiency weight plus capped years of experience. Rolling
// performance stats are consumed as-is; they are maintained outside this
// service from completed-job history.
func scoreTechnician(member *models.TeamMember, req JobRequirements, skillsByID map[string]models.TeamMemberSkill) float64 {
	var score float64
	for _, required := range req.RequiredSkills {
		skill := skillsByID[required]
		score += proficiencyWeights[skill.Proficiency]
		years := skill.YearsExperience
		if years > 10 {
			years = 10
		}
		score += years * 0.5
	}
	score += member.FirstTimeFixRate*10 + member.OnTimeRate*5 + member.AverageRating*2
	return score
}

// FindEligibleTechnicians evaluates every active technician on the
// contractor's team against the job requirements and returns the eligible
// ones ordered by descending match score. The sort is stable: ties keep the
// team's document order so results are deterministic. The result is an
// advisory snapshot; eligibility is re-validated at assignment time.
func FindEligibleTechnicians(db *gorm.DB, contractorID uint, req JobRequirements) ([]TechnicianMatch, error) {
	var team []models.TeamMember
	err := db.
		Preload("Skills").
		Preload("Certifications").
		Preload("WorkingHours").
		Preload("TimeOff").
		Where("contractor_id = ? AND is_active = ?", contractorID, true).
		Order("id").
		Find(&team).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	matches := make([]TechnicianMatch, 0, len(team))
	for i := range team {
		match := EvaluateTechnician(&team[i], req)
		if match.Eligible {
			matches = append(matches, match)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	return matches, nil
}
