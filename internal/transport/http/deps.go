package http

import "github.com/mymai1208/AntiBot/internal/application/verification"

// Deps holds the application services the router exposes.
type Deps struct {
	Verification verification.Service
}
