package services

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/logger"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/metrics"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

// CalendarService owns reservations, the availability grid and capacity settings.
type CalendarService struct {
	DB           *gorm.DB
	Reservations *repository.ReservationRepository
	Capacity     *repository.CapacityRepository
	Customers    *repository.CustomerRepository
	Location     *time.Location
	Notifier     Notifier
	Now          Clock
}

func NewCalendarService(
	db *gorm.DB,
	reservations *repository.ReservationRepository,
	capacity *repository.CapacityRepository,
	customers *repository.CustomerRepository,
	loc *time.Location,
	notifier Notifier,
	now Clock,
) *CalendarService {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarService{
		DB: db, Reservations: reservations, Capacity: capacity, Customers: customers,
		Location: loc, Notifier: orNoop(notifier), Now: orNow(now),
	}
}

// storedTime is the canonical form written to and compared in the database.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func (s *CalendarService) clock(t time.Time) string {
	return t.In(s.Location).Format("15:04")
}

type ReservationInput struct {
	CustomerID uint
	StartTime  time.Time
	EndTime    time.Time
	PartySize  int
	Source     string
	Notes      string
}

func validSource(src string) bool {
	return src == entity.SourcePhone || src == entity.SourceWalkIn || src == entity.SourceOnline
}

// validateWindow checks ordering, single venue day and opening hours.
func (s *CalendarService) validateWindow(settings *entity.CapacitySettings, start, end time.Time) error {
	if !end.After(start) {
		return invalid("Ora de sfârșit trebuie să fie după ora de început")
	}
	sy, sm, sd := start.In(s.Location).Date()
	ey, em, ed := end.In(s.Location).Date()
	if sy != ey || sm != em || sd != ed {
		return invalid("Rezervarea trebuie să înceapă și să se termine în aceeași zi")
	}
	open, closing, err := OpeningWindow(start, settings, s.Location)
	if err != nil {
		return err
	}
	if start.Before(open) || end.After(closing) {
		return invalid("Rezervarea trebuie să fie în programul de funcționare (%s-%s)",
			settings.OpeningTime, settings.ClosingTime)
	}
	return nil
}

// checkBookable runs the customer conflict and per-slot capacity checks for r.
func (s *CalendarService) checkBookable(tx *gorm.DB, settings *entity.CapacitySettings, r *entity.Reservation) error {
	repo := s.Reservations.WithTx(tx)

	conflict, err := repo.CustomerConflict(r.CustomerID, r.StartTime, r.EndTime, r.ID)
	if err != nil {
		return err
	}
	if conflict != nil {
		metrics.ReservationsCounter.WithLabelValues("rejected_conflict").Inc()
		return invalid("Clientul are deja o rezervare care se suprapune (%s-%s)",
			s.clock(conflict.StartTime), s.clock(conflict.EndTime))
	}

	others, err := repo.Blocking(r.StartTime, r.EndTime, r.ID)
	if err != nil {
		return err
	}
	open, _, err := OpeningWindow(r.StartTime, settings, s.Location)
	if err != nil {
		return err
	}
	for _, slot := range slotsCovering(open, r.StartTime, r.EndTime) {
		end := slot.Add(SlotLength)
		booked := BookedIn(others, slot, end)
		if booked+r.PartySize > settings.MaxPlayersPerSlot {
			metrics.ReservationsCounter.WithLabelValues("rejected_capacity").Inc()
			logger.L().Warn("reservation rejected: capacity",
				zap.Time("slot", slot), zap.Int("booked", booked), zap.Int("party", r.PartySize))
			return invalid("Capacitate depășită în intervalul %s-%s: %d din %d locuri ocupate",
				s.clock(slot), s.clock(end), booked, settings.MaxPlayersPerSlot)
		}
	}
	return nil
}

func (s *CalendarService) applyInput(tx *gorm.DB, r *entity.Reservation, in ReservationInput) (*entity.CapacitySettings, error) {
	if in.PartySize < 1 {
		return nil, invalid("Numărul de jucători trebuie să fie cel puțin 1")
	}
	src := in.Source
	if src == "" {
		src = entity.SourcePhone
	}
	if !validSource(src) {
		return nil, invalid("Sursă invalidă: %s", src)
	}
	ok, err := s.Customers.WithTx(tx).Exists(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("Clientul nu a fost găsit")
	}
	settings, err := s.Capacity.WithTx(tx).Get()
	if err != nil {
		return nil, err
	}
	start, end := storedTime(in.StartTime), storedTime(in.EndTime)
	if err := s.validateWindow(settings, start, end); err != nil {
		return nil, err
	}

	r.CustomerID = in.CustomerID
	r.StartTime = start
	r.EndTime = end
	r.PartySize = in.PartySize
	r.Source = src
	r.Notes = strings.TrimSpace(in.Notes)
	return settings, nil
}

func (s *CalendarService) CreateReservation(actor Actor, in ReservationInput) (*entity.Reservation, error) {
	r := &entity.Reservation{Status: entity.ReservationConfirmed, CreatedByID: actor.ID}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		settings, err := s.applyInput(tx, r, in)
		if err != nil {
			return err
		}
		if err := s.checkBookable(tx, settings, r); err != nil {
			return err
		}
		return s.Reservations.WithTx(tx).Create(r)
	})
	if err != nil {
		return nil, err
	}
	out, err := s.GetReservation(r.ID)
	if err != nil {
		return nil, err
	}
	metrics.ReservationsCounter.WithLabelValues("created").Inc()
	logger.L().Info("reservation created",
		zap.Uint("reservation_id", r.ID), zap.Uint("customer_id", r.CustomerID), zap.Int("party", r.PartySize))
	s.Notifier.Publish(EventReservationCreated, out)
	return out, nil
}

func (s *CalendarService) GetReservation(id uint) (*entity.Reservation, error) {
	r, err := s.Reservations.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Rezervarea nu a fost găsită")
	}
	return r, err
}

func (s *CalendarService) ListReservations(f repository.ReservationFilter) ([]entity.Reservation, error) {
	if f.From != nil {
		t := f.From.UTC()
		f.From = &t
	}
	if f.To != nil {
		t := f.To.UTC()
		f.To = &t
	}
	return s.Reservations.List(f)
}

// UpdateReservation re-validates the booking, ignoring the reservation's own seats.
func (s *CalendarService) UpdateReservation(id uint, in ReservationInput) (*entity.Reservation, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.Reservations.WithTx(tx)
		r, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Rezervarea nu a fost găsită")
		}
		if err != nil {
			return err
		}
		settings, err := s.applyInput(tx, r, in)
		if err != nil {
			return err
		}
		if r.Blocks() {
			if err := s.checkBookable(tx, settings, r); err != nil {
				return err
			}
		}
		return repo.Save(r)
	})
	if err != nil {
		return nil, err
	}
	out, err := s.GetReservation(id)
	if err != nil {
		return nil, err
	}
	metrics.ReservationsCounter.WithLabelValues("updated").Inc()
	s.Notifier.Publish(EventReservationUpdated, out)
	return out, nil
}

// ChangeStatus moves a confirmed reservation to a terminal status.
func (s *CalendarService) ChangeStatus(id uint, to string) (*entity.Reservation, error) {
	switch to {
	case entity.ReservationCancelled, entity.ReservationCompleted, entity.ReservationNoShow:
	default:
		return nil, invalid("Status invalid: %s", to)
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.Reservations.WithTx(tx)
		r, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Rezervarea nu a fost găsită")
		}
		if err != nil {
			return err
		}
		if r.Status != entity.ReservationConfirmed {
			return invalid("Rezervarea are deja statusul final %q", r.Status)
		}
		affected, err := repo.UpdateStatusGuard(id, entity.ReservationConfirmed, to)
		if err != nil {
			return err
		}
		if affected == 0 {
			return invalid("Rezervarea a fost modificată între timp")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out, err := s.GetReservation(id)
	if err != nil {
		return nil, err
	}
	metrics.ReservationsCounter.WithLabelValues("status_changed").Inc()
	logger.L().Info("reservation status changed", zap.Uint("reservation_id", id), zap.String("to", to))
	s.Notifier.Publish(EventReservationUpdated, out)
	return out, nil
}

func (s *CalendarService) DeleteReservation(id uint) error {
	n, err := s.Reservations.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Rezervarea nu a fost găsită")
	}
	metrics.ReservationsCounter.WithLabelValues("deleted").Inc()
	s.Notifier.Publish(EventReservationDeleted, map[string]uint{"id": id})
	return nil
}

// ---------------- Availability ----------------

type Availability struct {
	Date             string `json:"date"`
	OpeningTime      string `json:"openingTime"`
	ClosingTime      string `json:"closingTime"`
	Capacity         int    `json:"capacity"`
	WarningThreshold int    `json:"warningThreshold"`
	Slots            []Slot `json:"slots"`
}

// Availability builds the 30-minute grid for a venue-local date (YYYY-MM-DD).
func (s *CalendarService) Availability(date string) (*Availability, error) {
	day, err := time.ParseInLocation(time.DateOnly, date, s.Location)
	if err != nil {
		return nil, invalid("Data trebuie să fie în formatul AAAA-LL-ZZ")
	}
	settings, err := s.Capacity.Get()
	if err != nil {
		return nil, err
	}
	open, closing, err := OpeningWindow(day, settings, s.Location)
	if err != nil {
		return nil, err
	}
	from, to := open.UTC(), closing.UTC()
	reservations, err := s.Reservations.List(repository.ReservationFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	slots := BuildSlots(open, closing, reservations, settings)
	for i := range slots {
		slots[i].Start = slots[i].Start.In(s.Location)
		slots[i].End = slots[i].End.In(s.Location)
	}
	return &Availability{
		Date:             date,
		OpeningTime:      settings.OpeningTime,
		ClosingTime:      settings.ClosingTime,
		Capacity:         settings.MaxPlayersPerSlot,
		WarningThreshold: settings.WarningThreshold,
		Slots:            slots,
	}, nil
}

// ---------------- Capacity ----------------

func (s *CalendarService) GetCapacity() (*entity.CapacitySettings, error) {
	return s.Capacity.Get()
}

type CapacityInput struct {
	MaxPlayersPerSlot int
	WarningThreshold  int
	OpeningTime       string
	ClosingTime       string
}

func (s *CalendarService) UpdateCapacity(actor Actor, in CapacityInput) (*entity.CapacitySettings, error) {
	if in.MaxPlayersPerSlot < 1 {
		return nil, invalid("Capacitatea pe interval trebuie să fie cel puțin 1")
	}
	if in.WarningThreshold < 1 || in.WarningThreshold > 100 {
		return nil, invalid("Pragul de avertizare trebuie să fie între 1 și 100")
	}
	open, err := parseClock(in.OpeningTime)
	if err != nil {
		return nil, invalid("Ora de deschidere trebuie să fie în formatul HH:MM")
	}
	closing, err := parseClock(in.ClosingTime)
	if err != nil {
		return nil, invalid("Ora de închidere trebuie să fie în formatul HH:MM")
	}
	if open >= closing {
		return nil, invalid("Ora de deschidere trebuie să fie înainte de ora de închidere")
	}

	settings, err := s.Capacity.Get()
	if err != nil {
		return nil, err
	}
	settings.MaxPlayersPerSlot = in.MaxPlayersPerSlot
	settings.WarningThreshold = in.WarningThreshold
	settings.OpeningTime = in.OpeningTime
	settings.ClosingTime = in.ClosingTime
	uid := actor.ID
	settings.UpdatedByID = &uid
	if err := s.Capacity.Save(settings); err != nil {
		return nil, err
	}
	logger.L().Info("capacity updated",
		zap.Int("max_players", in.MaxPlayersPerSlot), zap.Int("threshold", in.WarningThreshold), zap.Uint("by", actor.ID))
	return settings, nil
}
