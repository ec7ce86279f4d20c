package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go-student-center/internal/apperror"
	"go-student-center/internal/model"
	"go-student-center/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dates without a time of day are interpreted in the center's timezone.
var centerLoc *time.Location

func init() {
	var err error
	centerLoc, err = time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		// Fallback to UTC-3 if timezone data not available
		centerLoc = time.FixedZone("ART", -3*60*60)
	}
}

type EventService interface {
	CreateEvent(ctx context.Context, req *EventRequest, actor string) (*model.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req *EventRequest, actor string) (*model.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID, actor string) error
	GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	ListEvents(ctx context.Context) ([]EventView, error)
	Calendar(ctx context.Context) ([]CalendarEntry, error)
	EventDetail(ctx context.Context, id uuid.UUID) (*EventDetail, error)
	RecomputeRevenue(ctx context.Context, id uuid.UUID) (*RevenueDrift, error)
	RecomputeAll(ctx context.Context) (*RecomputeReport, error)
}

type EventRequest struct {
	Name        string    `json:"name" validate:"required,max=100"`
	Description string    `json:"description"`
	Date        string    `json:"date" validate:"required"` // YYYY-MM-DD
	EndDate     string    `json:"end_date"`                 // YYYY-MM-DD, optional
	Location    string    `json:"location" validate:"max=100"`
	PeriodID    uuid.UUID `json:"period_id" validate:"uuid_required"`
}

// EventView is an event in the listing; IsNext marks the nearest upcoming one.
type EventView struct {
	model.Event
	IsNext bool `json:"is_next"`
}

type CalendarEntry struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Start       string    `json:"start"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Period      string    `json:"period"`
}

// DetailLine aggregates the sales of one product within an event.
type DetailLine struct {
	Product           string          `json:"product"`
	Quantity          int             `json:"quantity"`
	UnitSalePrice     decimal.Decimal `json:"unit_sale_price"`
	UnitPurchasePrice decimal.Decimal `json:"unit_purchase_price"`
	Total             decimal.Decimal `json:"total"`
	Profit            decimal.Decimal `json:"profit"`
}

type EventDetail struct {
	Event          model.Event                 `json:"event"`
	SalesCount     int                         `json:"sales_count"`
	Gross          decimal.Decimal             `json:"gross"`
	Net            decimal.Decimal             `json:"net"`
	UnitsSold      int                         `json:"units_sold"`
	Products       []DetailLine                `json:"products"`
	PaymentMethods map[model.PaymentMethod]int `json:"payment_methods"`
}

type RevenueDrift struct {
	EventID  uuid.UUID       `json:"event_id"`
	Name     string          `json:"name"`
	Previous decimal.Decimal `json:"previous"`
	Current  decimal.Decimal `json:"current"`
}

func (d RevenueDrift) Drifted() bool {
	return !d.Previous.Equal(d.Current)
}

type RecomputeReport struct {
	Checked int            `json:"checked"`
	Drifted []RevenueDrift `json:"drifted"`
}

type eventService struct {
	db           *gorm.DB
	eventRepo    repository.EventRepository
	periodRepo   repository.PeriodRepository
	saleRepo     repository.SaleRepository
	treasuryRepo repository.TreasuryRepository
	revenue      revenueKeeper
	after        committer
	logger       *zap.Logger
	now          func() time.Time
}

func NewEventService(
	db *gorm.DB,
	eventRepo repository.EventRepository,
	periodRepo repository.PeriodRepository,
	saleRepo repository.SaleRepository,
	treasuryRepo repository.TreasuryRepository,
	cache SummaryStore,
	logger *zap.Logger,
) EventService {
	return &eventService{
		db:           db,
		eventRepo:    eventRepo,
		periodRepo:   periodRepo,
		saleRepo:     saleRepo,
		treasuryRepo: treasuryRepo,
		revenue:      revenueKeeper{eventRepo: eventRepo, saleRepo: saleRepo},
		after:        committer{cache: cache, logger: logger},
		logger:       logger,
		now:          time.Now,
	}
}

// parseDate validates YYYY-MM-DD and returns the date at local midnight
func parseDate(field, value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(value), centerLoc)
	if err != nil {
		return time.Time{}, apperror.Invalid(field, "invalid date format, use YYYY-MM-DD")
	}
	return parsed, nil
}

func (s *eventService) buildEvent(ctx context.Context, event *model.Event, req *EventRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}
	var endDate *time.Time
	if strings.TrimSpace(req.EndDate) != "" {
		end, err := parseDate("end_date", req.EndDate)
		if err != nil {
			return err
		}
		if end.Before(date) {
			return apperror.Invalid("end_date", "end date cannot be before date")
		}
		endDate = &end
	}

	if _, err := s.periodRepo.FindByID(ctx, req.PeriodID); err != nil {
		return notFoundOr(err, "period", req.PeriodID)
	}

	event.Name = req.Name
	event.Description = req.Description
	event.Date = date
	event.EndDate = endDate
	event.Location = req.Location
	event.PeriodID = req.PeriodID
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, req *EventRequest, actor string) (*model.Event, error) {
	event := &model.Event{RevenueTotal: decimal.Zero}
	if err := s.buildEvent(ctx, event, req); err != nil {
		return nil, err
	}
	event.CreatedBy = actor
	event.UpdatedBy = actor

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event created", zap.String("operation", "create_event"), zap.String("event_id", event.ID.String()))
	s.after.invalidate(ctx)
	return s.GetEvent(ctx, event.ID)
}

func (s *eventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *EventRequest, actor string) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "event", id)
	}
	if err := s.buildEvent(ctx, event, req); err != nil {
		return nil, err
	}
	event.UpdatedBy = actor

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("event updated", zap.String("operation", "update_event"), zap.String("event_id", id.String()))
	return s.GetEvent(ctx, id)
}

// DeleteEvent removes the event. Its sales and ledger entries stay, detached.
func (s *eventService) DeleteEvent(ctx context.Context, id uuid.UUID, actor string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.saleRepo.LockByEvent(tx, id); err != nil {
			return err
		}
		if _, err := s.eventRepo.LockByID(tx, id); err != nil {
			return notFoundOr(err, "event", id)
		}
		if err := s.saleRepo.DetachEvent(tx, id); err != nil {
			return err
		}
		if err := s.treasuryRepo.DetachEvent(tx, id); err != nil {
			return err
		}
		return s.eventRepo.Delete(tx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("event deleted",
		zap.String("operation", "delete_event"),
		zap.String("event_id", id.String()),
		zap.String("by", actor),
	)
	s.after.invalidate(ctx)
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "event", id)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]EventView, error) {
	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().In(centerLoc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, centerLoc)

	views := make([]EventView, 0, len(events))
	marked := false
	for _, e := range events {
		view := EventView{Event: e}
		if !marked && !dayOf(e.Date).Before(today) {
			view.IsNext = true
			marked = true
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *eventService) Calendar(ctx context.Context) ([]CalendarEntry, error) {
	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]CalendarEntry, 0, len(events))
	for _, e := range events {
		period := "Sin gestión"
		if e.Period != nil {
			period = e.Period.Name
		}
		entries = append(entries, CalendarEntry{
			ID:          e.ID,
			Title:       e.Name,
			Start:       dayOf(e.Date).Format(model.DateLayout),
			Description: e.Description,
			Location:    e.Location,
			Period:      period,
		})
	}
	return entries, nil
}

func (s *eventService) EventDetail(ctx context.Context, id uuid.UUID) (*EventDetail, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	sales, _, err := s.saleRepo.List(ctx, repository.SaleFilter{EventID: &id, Order: "sold_at"})
	if err != nil {
		return nil, err
	}

	detail := &EventDetail{
		Event:          *event,
		SalesCount:     len(sales),
		Gross:          decimal.Zero,
		Net:            decimal.Zero,
		Products:       []DetailLine{},
		PaymentMethods: make(map[model.PaymentMethod]int),
	}

	lines := make(map[string]*DetailLine)
	for i := range sales {
		sale := &sales[i]
		detail.Gross = detail.Gross.Add(sale.Total())
		detail.Net = detail.Net.Add(sale.Profit())
		detail.UnitsSold += sale.Quantity
		detail.PaymentMethods[sale.PaymentMethod]++

		name := ""
		if sale.Product != nil {
			name = sale.Product.Name
		}
		line, ok := lines[name]
		if !ok {
			// unit prices shown are those of the first sale of the product
			line = &DetailLine{
				Product:           name,
				UnitSalePrice:     sale.UnitSalePrice,
				UnitPurchasePrice: sale.UnitPurchasePrice,
			}
			lines[name] = line
		}
		line.Quantity += sale.Quantity
		line.Total = line.Total.Add(sale.Total())
		line.Profit = line.Profit.Add(sale.Profit())
	}

	for _, line := range lines {
		detail.Products = append(detail.Products, *line)
	}
	sort.Slice(detail.Products, func(i, j int) bool {
		return detail.Products[i].Product < detail.Products[j].Product
	})

	detail.Gross = model.Round2(detail.Gross)
	detail.Net = model.Round2(detail.Net)
	return detail, nil
}

func (s *eventService) RecomputeRevenue(ctx context.Context, id uuid.UUID) (*RevenueDrift, error) {
	drift := &RevenueDrift{EventID: id}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		previous, current, err := s.revenue.recompute(tx, id)
		if err != nil {
			return err
		}
		drift.Previous, drift.Current = previous, current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if drift.Drifted() {
		s.logger.Warn("event revenue drift repaired",
			zap.String("event_id", id.String()),
			zap.String("previous", drift.Previous.StringFixed(2)),
			zap.String("current", drift.Current.StringFixed(2)),
		)
		s.after.invalidate(ctx)
	}
	return drift, nil
}

// RecomputeAll repairs every event, one transaction per event.
func (s *eventService) RecomputeAll(ctx context.Context) (*RecomputeReport, error) {
	events, err := s.eventRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &RecomputeReport{Drifted: []RevenueDrift{}}
	for _, e := range events {
		drift, err := s.RecomputeRevenue(ctx, e.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			// deleted concurrently
			continue
		}
		if err != nil {
			return report, err
		}
		report.Checked++
		if drift.Drifted() {
			drift.Name = e.Name
			report.Drifted = append(report.Drifted, *drift)
		}
	}
	return report, nil
}

// dayOf drops the clock part of a stored calendar date, keeping its Y-M-D.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, centerLoc)
}
