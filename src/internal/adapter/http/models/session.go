package models

import "time"

type LoginRequest struct {
	Username string   `json:"username"`
	Pin      PinInput `json:"pin"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	SessionID string      `json:"sessionId"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Welcome   string      `json:"welcome"`
	Date      string      `json:"date"`
	Timer     string      `json:"timer"`
	Account   AccountView `json:"account"`
}

type LogoutResponse struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

type TimerResponse struct {
	Remaining string `json:"remaining"`
	Seconds   int    `json:"seconds"`
	State     string `json:"state"`
}
