package services

import "github.com/norseabelito-rgb/lzhub-demo-sub001/entity"

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// CanManage reports admin or manager.
func (a Actor) CanManage() bool {
	return a.Role == entity.RoleAdmin || a.Role == entity.RoleManager
}
