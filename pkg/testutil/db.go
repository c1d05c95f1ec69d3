// Package testutil provides an in-memory database and fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/configs"
	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

const Password = "parola-test-123"

var seq atomic.Int64

// passwordHash is computed once; bcrypt at default cost is slow.
var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// NewDB returns a migrated private in-memory sqlite database with default settings rows.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := configs.OpenDB(configs.DriverSQLite, "file::memory:", "silent")
	require.NoError(t, err)
	require.NoError(t, configs.SetupDatabase(db))
	require.NoError(t, configs.SeedDefaults(db))
	t.Cleanup(func() { _ = configs.CloseDB(db) })
	return db
}

// CreateUser inserts an active user with Password as password.
func CreateUser(t testing.TB, db *gorm.DB, role string) *entity.User {
	t.Helper()
	n := seq.Add(1)
	u := &entity.User{
		Email:     fmt.Sprintf("%s%d@laserzone.test", role, n),
		Password:  passwordHash,
		FirstName: "Test",
		LastName:  fmt.Sprintf("%s %d", role, n),
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateInactiveUser(t testing.TB, db *gorm.DB, role string) *entity.User {
	t.Helper()
	u := CreateUser(t, db, role)
	require.NoError(t, db.Model(u).Update("is_active", false).Error)
	u.IsActive = false
	return u
}

func CreateCustomer(t testing.TB, db *gorm.DB, name string) *entity.Customer {
	t.Helper()
	n := seq.Add(1)
	c := &entity.Customer{Name: name, Phone: fmt.Sprintf("07%08d", n)}
	require.NoError(t, db.Create(c).Error)
	return c
}
