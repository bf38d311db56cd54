package cart

import (
	"time"

	"storefront-shell/internal/domain"
)

const (
	ConnectionConnected    = "connected"
	ConnectionDisconnected = "disconnected"
)

// Status describes checkout progress and the link to the storefront API.
type Status struct {
	IsProcessing     bool      `json:"isProcessing"`
	LastUpdate       time.Time `json:"lastUpdate"`
	ConnectionStatus string    `json:"connectionStatus"`
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetProcessing flags an in-flight purchase and notifies its start or completion.
func (s *Service) SetProcessing(processing bool) {
	s.mu.Lock()
	s.status.IsProcessing = processing
	s.mu.Unlock()

	if processing {
		s.notes.Add(domain.NotifyInfo, "Processing purchase...")
	} else {
		s.notes.Add(domain.NotifySuccess, "Purchase completed")
	}
}

// BeginProcessing claims the processing flag. It reports false when a
// purchase is already in flight.
func (s *Service) BeginProcessing() bool {
	s.mu.Lock()
	if s.status.IsProcessing {
		s.mu.Unlock()
		return false
	}
	s.status.IsProcessing = true
	s.mu.Unlock()

	s.notes.Add(domain.NotifyInfo, "Processing purchase...")
	return true
}

// SetConnectionStatus records the API link state. Repeating the current state is silent.
func (s *Service) SetConnectionStatus(status string) {
	s.mu.Lock()
	previous := s.status.ConnectionStatus
	s.status.ConnectionStatus = status
	s.mu.Unlock()

	if previous == status {
		return
	}
	switch status {
	case ConnectionConnected:
		s.notes.Add(domain.NotifySuccess, "Connected to server")
	case ConnectionDisconnected:
		s.notes.Add(domain.NotifyWarning, "Disconnected from server")
	}
}

// AbortProcessing clears the processing flag after a failed purchase.
func (s *Service) AbortProcessing(reason string) {
	s.mu.Lock()
	s.status.IsProcessing = false
	s.mu.Unlock()

	s.notes.Add(domain.NotifyError, reason)
}
