package repository

import "errors"

var ErrAppointmentAlreadyPaid = errors.New("appointment already has a payment")
