package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type ReservationRepository struct {
	DB *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{DB: tx}
}

type ReservationFilter struct {
	From       *time.Time
	To         *time.Time
	Status     string
	CustomerID uint
}

// List returns reservations overlapping [From, To) ordered by start time.
func (r *ReservationRepository) List(f ReservationFilter) ([]entity.Reservation, error) {
	q := r.DB.Model(&entity.Reservation{}).Preload("Customer")
	if f.From != nil {
		q = q.Where("end_time > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", *f.To)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	var out []entity.Reservation
	err := q.Order("start_time ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *ReservationRepository) FindByID(id uint) (*entity.Reservation, error) {
	var res entity.Reservation
	if err := r.DB.Preload("Customer").First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *ReservationRepository) Create(res *entity.Reservation) error {
	return r.DB.Omit(clause.Associations).Create(res).Error
}

func (r *ReservationRepository) Save(res *entity.Reservation) error {
	return r.DB.Omit(clause.Associations).Save(res).Error
}

func (r *ReservationRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&entity.Reservation{}, id)
	return res.RowsAffected, res.Error
}

// Blocking returns non-cancelled reservations overlapping [start, end), excluding excludeID.
func (r *ReservationRepository) Blocking(start, end time.Time, excludeID uint) ([]entity.Reservation, error) {
	q := r.DB.Where("status <> ? AND start_time < ? AND end_time > ?", entity.ReservationCancelled, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []entity.Reservation
	err := q.Order("start_time ASC").Find(&out).Error
	return out, err
}

// CustomerConflict returns an overlapping non-cancelled reservation of the same customer, if any.
func (r *ReservationRepository) CustomerConflict(customerID uint, start, end time.Time, excludeID uint) (*entity.Reservation, error) {
	q := r.DB.Where("customer_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
		customerID, entity.ReservationCancelled, end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var out []entity.Reservation
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// UpdateStatusGuard changes status only if it is still from; callers check the affected rows.
func (r *ReservationRepository) UpdateStatusGuard(id uint, from, to string) (int64, error) {
	res := r.DB.Model(&entity.Reservation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}
