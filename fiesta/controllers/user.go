package controllers

import (
	"context"
	"errors"

	"fiesta/fiesta/sources/psql/dao"
	"fiesta/fiesta/sources/psql/models"
)

type UserController struct {
	userDAO *dao.UserDAO
}

func NewUserController(userDAO *dao.UserDAO) *UserController {
	return &UserController{userDAO: userDAO}
}

func (c *UserController) GetUser(ctx context.Context, id int) (*models.User, error) {
	return c.userDAO.GetUserByID(ctx, id)
}

// UpdateProfile updates the mutable profile fields on the user row.
func (c *UserController) UpdateProfile(ctx context.Context, id int, fullName, phone *string) (*models.User, error) {
	user, err := c.userDAO.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if fullName != nil {
		user.FullName = fullName
	}
	if phone != nil {
		user.Phone = phone
	}
	if err := c.userDAO.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
