package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

type CustomerRepository struct {
	DB *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{DB: tx}
}

// List searches by name or phone, optionally restricted to customers carrying tagID.
func (r *CustomerRepository) List(query string, tagID uint) ([]entity.Customer, error) {
	q := r.DB.Model(&entity.Customer{}).Preload("Tags")
	if s := strings.TrimSpace(query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
	}
	if tagID != 0 {
		q = q.Where("id IN (?)", r.DB.Table("customer_tags").Select("customer_id").Where("tag_id = ?", tagID))
	}
	var out []entity.Customer
	err := q.Order("name ASC, id ASC").Limit(200).Find(&out).Error
	return out, err
}

func (r *CustomerRepository) FindByID(id uint) (*entity.Customer, error) {
	var c entity.Customer
	if err := r.DB.Preload("Tags").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.DB.Model(&entity.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountByPhone counts live customers with phone, ignoring excludeID.
func (r *CustomerRepository) CountByPhone(phone string, excludeID uint) (int64, error) {
	var count int64
	q := r.DB.Model(&entity.Customer{}).Where("phone = ?", phone)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *CustomerRepository) Create(c *entity.Customer) error {
	return r.DB.Omit(clause.Associations).Create(c).Error
}

func (r *CustomerRepository) Save(c *entity.Customer) error {
	return r.DB.Omit(clause.Associations).Save(c).Error
}

func (r *CustomerRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Customer{}, id).Error
}

func (r *CustomerRepository) AddTag(customerID, tagID uint) error {
	link := entity.CustomerTag{CustomerID: customerID, TagID: tagID}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *CustomerRepository) RemoveTag(customerID, tagID uint) (int64, error) {
	res := r.DB.Where("customer_id = ? AND tag_id = ?", customerID, tagID).Delete(&entity.CustomerTag{})
	return res.RowsAffected, res.Error
}

func (r *CustomerRepository) RecentReservations(customerID uint, limit int) ([]entity.Reservation, error) {
	var out []entity.Reservation
	err := r.DB.Where("customer_id = ?", customerID).
		Order("start_time DESC").Limit(limit).Find(&out).Error
	return out, err
}

// CountUpcoming counts confirmed reservations of the customer starting after now.
func (r *CustomerRepository) CountUpcoming(customerID uint, now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Reservation{}).
		Where("customer_id = ? AND status = ? AND start_time > ?", customerID, entity.ReservationConfirmed, now).
		Count(&count).Error
	return count, err
}
