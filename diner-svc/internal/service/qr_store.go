package service

import (
	"context"
	"log"
	"sync"
	"time"

	"qr-dine/diner-svc/internal/domain"
)

const (
	msgInvalidQRCode  = "Invalid QR code. Hotel, branch or table information is missing."
	msgSignInRequired = "Please sign in to continue ordering."
	msgQRAuthFailed   = "QR code authentication failed."
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgScanFailed     = "Failed to verify QR code. Please try again."
)

type QRState struct {
	CurrentScanParams *domain.ScanParams `json:"currentScanParams,omitempty"`
	Hotel             *domain.Hotel      `json:"hotel,omitempty"`
	Branch            *domain.Branch     `json:"branch,omitempty"`
	Table             *domain.Table      `json:"table,omitempty"`
	User              *domain.User       `json:"user,omitempty"`
	IsAuthenticated   bool               `json:"isAuthenticated"`
	IsLoading         bool               `json:"isLoading"`
	Error             string             `json:"error,omitempty"`
}

// QRStore turns the identifiers printed on a table's QR code into a validated
// dining scope.
type QRStore struct {
	mu        sync.RWMutex
	state     QRState
	scanSeq   uint64
	scanner   QRScanner
	auth      *AuthStore
	navigator Navigator
}

func NewQRStore(scanner QRScanner, auth *AuthStore, navigator Navigator) *QRStore {
	return &QRStore{
		scanner:   scanner,
		auth:      auth,
		navigator: navigator,
	}
}

func (s *QRStore) SetCurrentScanParams(params domain.ScanParams) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentScanParams = &params
}

// Scan validates params against the backend. It returns the scan data on
// success and nil on every failure, with the reason left in State().Error.
func (s *QRStore) Scan(ctx context.Context, params domain.ScanParams) *domain.ScanData {
	s.SetCurrentScanParams(params)

	if !params.Complete() {
		s.mu.Lock()
		s.state.Error = msgInvalidQRCode
		s.mu.Unlock()
		s.navigate(RouteSignIn, RedirectDelay)
		return nil
	}

	if s.auth == nil || s.auth.AccessToken() == "" {
		s.mu.Lock()
		s.clearScopeLocked()
		s.state.Error = msgSignInRequired
		s.mu.Unlock()
		s.navigate(RouteSignIn, 0)
		return nil
	}

	s.mu.Lock()
	s.scanSeq++
	seq := s.scanSeq
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	resp, err := s.scanner.ScanQR(ctx, params)

	s.mu.Lock()
	if seq != s.scanSeq {
		s.mu.Unlock()
		log.Printf("[diner-svc] discarding stale scan response for hotel=%s branch=%s table=%s",
			params.HotelID, params.BranchID, params.TableNo)
		return nil
	}
	s.state.IsLoading = false

	switch {
	case err != nil && domain.IsUnauthorized(err):
		s.clearScopeLocked()
		s.state.Error = msgSessionExpired
		s.mu.Unlock()
		s.navigate(RouteSignIn, 0)
		return nil

	case err != nil:
		log.Printf("[diner-svc] ERROR: QR scan failed: %v", err)
		s.state.Error = domain.UserMessage(err, msgScanFailed)
		s.mu.Unlock()
		s.navigate(RouteSignIn, RedirectDelay)
		return nil

	case resp == nil || !resp.Success || !resp.Data.Authenticated:
		s.clearScopeLocked()
		s.state.Error = msgQRAuthFailed
		if resp != nil && resp.Message != "" {
			s.state.Error = resp.Message
		}
		s.mu.Unlock()
		s.navigate(RouteSignIn, 0)
		return nil
	}

	s.state.Hotel = resp.Data.Hotel
	s.state.Branch = resp.Data.Branch
	s.state.Table = resp.Data.Table
	s.state.User = resp.Data.User
	s.state.IsAuthenticated = true
	s.state.Error = ""
	data := resp.Data
	s.mu.Unlock()

	log.Printf("[diner-svc] table session authenticated: hotel=%s branch=%s table=%s",
		params.HotelID, params.BranchID, params.TableNo)
	return &data
}

// ClearScanData resets everything the store holds. Safe from any state.
func (s *QRStore) ClearScanData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearScopeLocked()
	s.state.CurrentScanParams = nil
	s.state.Error = ""
}

func (s *QRStore) State() QRState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *QRStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Scope is the dining scope resolved by the last successful scan. Before the
// backend returns ids, the raw scan params are used.
func (s *QRStore) Scope() domain.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scope domain.Scope
	if p := s.state.CurrentScanParams; p != nil {
		scope = domain.Scope{HotelID: p.HotelID, BranchID: p.BranchID}
	}
	if s.state.Hotel != nil && s.state.Hotel.ID != "" {
		scope.HotelID = s.state.Hotel.ID
	}
	if s.state.Branch != nil && s.state.Branch.ID != "" {
		scope.BranchID = s.state.Branch.ID
	}
	return scope
}

func (s *QRStore) TableID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Table != nil {
		return s.state.Table.ID
	}
	return ""
}

// clearScopeLocked drops the resolved scope but keeps the raw scan params so
// the scan can be retried after signing in. It also invalidates in-flight scans.
func (s *QRStore) clearScopeLocked() {
	s.scanSeq++
	s.state.Hotel = nil
	s.state.Branch = nil
	s.state.Table = nil
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.IsLoading = false
}

func (s *QRStore) navigate(route string, delay time.Duration) {
	if s.navigator != nil {
		s.navigator.Navigate(route, delay)
	}
}
