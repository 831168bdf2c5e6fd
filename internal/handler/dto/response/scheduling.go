package response

import (
	"bay-scheduler/internal/domain/scheduling"
	"bay-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type DayHoursResponse struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type ResourceResponse struct {
	ID             string             `json:"id"`
	Label          string             `json:"label"`
	Capabilities   []string           `json:"capabilities"`
	OperatingHours []DayHoursResponse `json:"operatingHours"`
}

func FromResourceViews(views []queries.ResourceView) ([]ResourceResponse, error) {
	res := make([]ResourceResponse, 0, len(views))
	if err := copier.CopyWithOption(&res, &views, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return res, nil
}

type SlotsResponse struct {
	ResourceID string           `json:"resourceId"`
	Date       string           `json:"date"`
	Slots      []WindowResponse `json:"slots"`
}

type AvailabilityResponse struct {
	ResourceID string             `json:"resourceId"`
	Window     WindowResponse     `json:"window"`
	Available  bool               `json:"available"`
	Blocking   []*BookingResponse `json:"blocking"`
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	return &AvailabilityResponse{
		ResourceID: v.ResourceID,
		Window:     FromWindow(v.Window),
		Available:  v.Available,
		Blocking:   FromBookings(v.Blocking),
	}
}

type RationaleResponse struct {
	Reasons  []string `json:"reasons"`
	Benefits []string `json:"benefits"`
	Warnings []string `json:"warnings"`
}

type SubScoresResponse struct {
	TimeOfDay   float64 `json:"timeOfDay"`
	LoadBalance float64 `json:"loadBalance"`
	Gap         float64 `json:"gap"`
	Efficiency  float64 `json:"efficiency"`
	Preference  float64 `json:"preference"`
	Adjustment  float64 `json:"adjustment"`
}

type MoveResponse struct {
	BookingID  uuid.UUID      `json:"bookingId"`
	ResourceID string         `json:"resourceId"`
	From       WindowResponse `json:"from"`
	To         WindowResponse `json:"to"`
}

type ProposalResponse struct {
	Kind       string             `json:"kind"`
	ResourceID string             `json:"resourceId"`
	Window     WindowResponse     `json:"window"`
	Score      float64            `json:"score"`
	Label      string             `json:"label,omitempty"`
	Rationale  RationaleResponse  `json:"rationale"`
	SubScores  *SubScoresResponse `json:"subScores,omitempty"`
	Moves      []MoveResponse     `json:"moves,omitempty"`
}

func FromProposal(p scheduling.Proposal) ProposalResponse {
	res := ProposalResponse{
		Kind:       string(p.Kind),
		ResourceID: p.ResourceID,
		Window:     FromWindow(p.Window),
		Score:      p.Score,
		Label:      string(p.Label),
		Rationale: RationaleResponse{
			Reasons:  nonNil(p.Rationale.Reasons),
			Benefits: nonNil(p.Rationale.Benefits),
			Warnings: nonNil(p.Rationale.Warnings),
		},
	}
	if p.SubScores != nil {
		sub := SubScoresResponse(*p.SubScores)
		res.SubScores = &sub
	}
	for _, m := range p.Moves {
		res.Moves = append(res.Moves, MoveResponse{
			BookingID:  m.BookingID,
			ResourceID: m.ResourceID,
			From:       FromWindow(m.From),
			To:         FromWindow(m.To),
		})
	}
	return res
}

func FromProposals(ps []scheduling.Proposal) []ProposalResponse {
	res := make([]ProposalResponse, len(ps))
	for i, p := range ps {
		res[i] = FromProposal(p)
	}
	return res
}

type ForceOptionResponse struct {
	ResourceID           string         `json:"resourceId"`
	Window               WindowResponse `json:"window"`
	Overlaps             []uuid.UUID    `json:"overlaps"`
	Warning              string         `json:"warning"`
	RequiresConfirmation bool           `json:"requiresConfirmation"`
}

type ResolutionResponse struct {
	Conflict  bool                 `json:"conflict"`
	Blocking  []*BookingResponse   `json:"blocking"`
	Proposals []ProposalResponse   `json:"proposals"`
	Force     *ForceOptionResponse `json:"force,omitempty"`
}

func FromResolution(r *scheduling.Resolution) *ResolutionResponse {
	res := &ResolutionResponse{
		Conflict:  r.Conflict,
		Blocking:  FromBookings(r.Blocking),
		Proposals: FromProposals(r.Proposals),
	}
	if r.Force != nil {
		res.Force = &ForceOptionResponse{
			ResourceID:           r.Force.ResourceID,
			Window:               FromWindow(r.Force.Window),
			Overlaps:             r.Force.Overlaps,
			Warning:              r.Force.Warning,
			RequiresConfirmation: r.Force.RequiresConfirmation,
		}
	}
	return res
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
