package service

import (
	"context"

	"github.com/Strob0t/CRMForge/internal/domain/deal"
	"github.com/Strob0t/CRMForge/internal/domain/event"
	"github.com/Strob0t/CRMForge/internal/port/database"
)

// BoardColumn is one pipeline stage on the deal board.
type BoardColumn struct {
	Stage deal.Stage  `json:"stage"`
	Deals []deal.Deal `json:"deals"`
	Count int         `json:"count"`
	Value float64     `json:"value"`
}

// Board is the deal pipeline: always six columns, in stage order.
type Board struct {
	Columns []BoardColumn `json:"columns"`
	Total   int           `json:"total"`
	Empty   bool          `json:"empty"`
	Message string        `json:"message,omitempty"`
}

// DealService manages the deals screen.
type DealService struct {
	*EditableScreen[deal.Deal, deal.Input]
}

// NewDealService creates a DealService.
func NewDealService(store database.Store, events *Events) *DealService {
	return &DealService{newEditableScreen[deal.Deal, deal.Input](screenDef[deal.Deal]{
		entity: event.EntityDeal,
		embed:  []string{deal.RelCompany, deal.RelContact},
		id:     func(d *deal.Deal) string { return d.ID },
		match:  (*deal.Deal).Matches,
	}, store.Deals(), events)}
}

// View lists deals matching term on title or company name.
func (s *DealService) View(ctx context.Context, q database.Query, term string) (View[deal.Deal], error) {
	rows, err := s.List(ctx, q, term)
	if err != nil {
		return View[deal.Deal]{}, err
	}
	return NewView(rows), nil
}

// Board groups the caller's deals by stage.
func (s *DealService) Board(ctx context.Context, term string) (*Board, error) {
	rows, err := s.List(ctx, database.Query{}, term)
	if err != nil {
		return nil, err
	}
	return GroupByStage(rows), nil
}

// SetStage moves a deal to another pipeline stage.
func (s *DealService) SetStage(ctx context.Context, id, stage string) (*Result[deal.Deal], error) {
	st, err := deal.ParseStage(stage)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, deal.StageChange(st))
}

// GroupByStage builds the six-column board, preserving the order of rows
// within each column.
func GroupByStage(rows []deal.Deal) *Board {
	idx := make(map[deal.Stage]int, len(deal.Stages))
	b := &Board{Columns: make([]BoardColumn, len(deal.Stages)), Total: len(rows)}
	for i, st := range deal.Stages {
		idx[st] = i
		b.Columns[i] = BoardColumn{Stage: st, Deals: []deal.Deal{}}
	}
	for _, d := range rows {
		i, ok := idx[d.Stage]
		if !ok {
			continue
		}
		col := &b.Columns[i]
		col.Deals = append(col.Deals, d)
		col.Count++
		col.Value += d.Value
	}
	if len(rows) == 0 {
		b.Empty = true
		b.Message = EmptyMessage
	}
	return b
}
