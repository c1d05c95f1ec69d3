package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/pkg/validation"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/repository"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CustomerService manages the customer book and its tags.
type CustomerService struct {
	DB        *gorm.DB
	Customers *repository.CustomerRepository
	Tags      *repository.TagRepository
	Now       Clock
}

func NewCustomerService(db *gorm.DB, customers *repository.CustomerRepository, tags *repository.TagRepository, now Clock) *CustomerService {
	return &CustomerService{DB: db, Customers: customers, Tags: tags, Now: orNow(now)}
}

type CustomerInput struct {
	Name  string
	Phone string
	Email string
	Notes string
}

type CustomerDetail struct {
	entity.Customer
	RecentReservations []entity.Reservation `json:"recentReservations"`
}

func (s *CustomerService) List(query string, tagID uint) ([]entity.Customer, error) {
	return s.Customers.List(query, tagID)
}

func (s *CustomerService) Get(id uint) (*CustomerDetail, error) {
	c, err := s.Customers.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Clientul nu a fost găsit")
	}
	if err != nil {
		return nil, err
	}
	recent, err := s.Customers.RecentReservations(id, 10)
	if err != nil {
		return nil, err
	}
	return &CustomerDetail{Customer: *c, RecentReservations: recent}, nil
}

func (s *CustomerService) apply(c *entity.Customer, in CustomerInput) error {
	c.Name = strings.TrimSpace(in.Name)
	c.Phone = validation.NormalizePhone(in.Phone)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Notes = strings.TrimSpace(in.Notes)
	if c.Name == "" {
		return invalid("Numele clientului este obligatoriu")
	}
	if c.Phone == "" {
		return invalid("Telefonul clientului este obligatoriu")
	}
	count, err := s.Customers.CountByPhone(c.Phone, c.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return invalid("Există deja un client cu numărul %s", c.Phone)
	}
	return nil
}

func (s *CustomerService) Create(in CustomerInput) (*entity.Customer, error) {
	var c entity.Customer
	if err := s.apply(&c, in); err != nil {
		return nil, err
	}
	if err := s.Customers.Create(&c); err != nil {
		return nil, err
	}
	c.Tags = []entity.Tag{}
	return &c, nil
}

func (s *CustomerService) Update(id uint, in CustomerInput) (*entity.Customer, error) {
	c, err := s.Customers.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Clientul nu a fost găsit")
	}
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, in); err != nil {
		return nil, err
	}
	if err := s.Customers.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses customers that still have upcoming confirmed reservations.
func (s *CustomerService) Delete(id uint) error {
	ok, err := s.Customers.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("Clientul nu a fost găsit")
	}
	upcoming, err := s.Customers.CountUpcoming(id, s.Now().UTC())
	if err != nil {
		return err
	}
	if upcoming > 0 {
		return invalid("Clientul are %d rezervări viitoare confirmate", upcoming)
	}
	return s.Customers.Delete(id)
}

func (s *CustomerService) AddTag(customerID, tagID uint) (*entity.Customer, error) {
	ok, err := s.Customers.Exists(customerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("Clientul nu a fost găsit")
	}
	if _, err := s.Tags.FindByID(tagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Eticheta nu a fost găsită")
		}
		return nil, err
	}
	if err := s.Customers.AddTag(customerID, tagID); err != nil {
		return nil, err
	}
	return s.Customers.FindByID(customerID)
}

func (s *CustomerService) RemoveTag(customerID, tagID uint) error {
	n, err := s.Customers.RemoveTag(customerID, tagID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("Clientul nu are această etichetă")
	}
	return nil
}

// ---------------- Tags ----------------

func (s *CustomerService) ListTags() ([]entity.Tag, error) {
	return s.Tags.List()
}

func (s *CustomerService) CreateTag(name, color string) (*entity.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Numele etichetei este obligatoriu")
	}
	if color == "" {
		color = "#6b7280"
	}
	if !hexColor.MatchString(color) {
		return nil, invalid("Culoarea trebuie să fie în formatul #RRGGBB")
	}
	count, err := s.Tags.CountByName(name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, invalid("Eticheta %q există deja", name)
	}
	t := &entity.Tag{Name: name, Color: color}
	if err := s.Tags.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *CustomerService) DeleteTag(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		n, err := s.Tags.WithTx(tx).Delete(id)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound("Eticheta nu a fost găsită")
		}
		return nil
	})
}
