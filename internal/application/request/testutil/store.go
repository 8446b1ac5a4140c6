// Package testutil provides an in-memory store implementing the domain
// repositories and the transaction manager with real rollback semantics, so
// usecase tests can assert atomicity without a database.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"netreq/internal/domain/location"
	"netreq/internal/domain/notification"
	"netreq/internal/domain/request"
	"netreq/internal/domain/resource"
	"netreq/internal/shared/logger"
)

// NopLogger returns a logger that discards everything.
func NopLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.DiscardHandler))
}

type locationRow struct {
	id               uint
	areaName         string
	networkAvailable bool
}

type resourceRow struct {
	id        uint
	name      string
	total     int
	available int
}

type requestRow struct {
	id             uint
	userID         uint
	locationID     uint
	connectionType string
	status         request.Status
	createdAt      time.Time
}

type allocationRow struct {
	id         uint
	requestID  uint
	resourceID uint
	quantity   int
}

type notificationRow struct {
	id        uint
	userID    uint
	message   string
	seen      bool
	createdAt time.Time
}

// Store is an in-memory backing store. RunInTransaction holds the store
// mutex for the whole scope, so transactions are serialized exactly like
// row-locked database transactions, and restores a snapshot on error.
type Store struct {
	mu sync.Mutex

	locations     map[uint]locationRow
	resources     map[uint]resourceRow
	requests      map[uint]requestRow
	allocations   map[uint]allocationRow
	notifications map[uint]notificationRow

	nextID uint
}

func NewStore() *Store {
	return &Store{
		locations:     make(map[uint]locationRow),
		resources:     make(map[uint]resourceRow),
		requests:      make(map[uint]requestRow),
		allocations:   make(map[uint]allocationRow),
		notifications: make(map[uint]notificationRow),
	}
}

type txMarker struct{}

func inTx(ctx context.Context) bool {
	return ctx.Value(txMarker{}) != nil
}

// lock acquires the store mutex unless the context already runs inside a
// transaction, which holds it for the whole scope.
func (s *Store) lock(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// RunInTransaction executes fn under the store mutex. When fn returns an
// error the store is restored to its pre-transaction snapshot.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	if err := fn(context.WithValue(ctx, txMarker{}, struct{}{})); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	locations     map[uint]locationRow
	resources     map[uint]resourceRow
	requests      map[uint]requestRow
	allocations   map[uint]allocationRow
	notifications map[uint]notificationRow
	nextID        uint
}

func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		locations:     copyMap(s.locations),
		resources:     copyMap(s.resources),
		requests:      copyMap(s.requests),
		allocations:   copyMap(s.allocations),
		notifications: copyMap(s.notifications),
		nextID:        s.nextID,
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.locations = snap.locations
	s.resources = snap.resources
	s.requests = snap.requests
	s.allocations = snap.allocations
	s.notifications = snap.notifications
	s.nextID = snap.nextID
}

func copyMap[V any](m map[uint]V) map[uint]V {
	out := make(map[uint]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) allocateID() uint {
	s.nextID++
	return s.nextID
}

// Seed helpers for test setup.

func (s *Store) SeedLocation(areaName string, networkAvailable bool) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocateID()
	s.locations[id] = locationRow{id: id, areaName: areaName, networkAvailable: networkAvailable}
	return id
}

func (s *Store) SeedResource(name string, total, available int) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.allocateID()
	s.resources[id] = resourceRow{id: id, name: name, total: total, available: available}
	return id
}

// Inspection helpers for assertions.

func (s *Store) ResourceAvailable(id uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources[id].available
}

func (s *Store) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Store) RequestStatus(id uint) request.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id].status
}

func (s *Store) AllocationCount(requestID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, row := range s.allocations {
		if row.requestID == requestID {
			count++
		}
	}
	return count
}

func (s *Store) NotificationMessages(userID uint) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []notificationRow
	for _, row := range s.notifications {
		if row.userID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	messages := make([]string, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.message)
	}
	return messages
}

// Repository views.

func (s *Store) Locations() location.Repository         { return &locationRepo{s} }
func (s *Store) Resources() resource.Repository         { return &resourceRepo{s} }
func (s *Store) Requests() request.Repository           { return &requestRepo{s} }
func (s *Store) Notifications() notification.Repository { return &notificationRepo{s} }

type locationRepo struct{ s *Store }

func (r *locationRepo) Create(ctx context.Context, loc *location.Location) error {
	defer r.s.lock(ctx)()
	id := r.s.allocateID()
	r.s.locations[id] = locationRow{id: id, areaName: loc.AreaName(), networkAvailable: loc.IsNetworkAvailable()}
	return loc.SetID(id)
}

func (r *locationRepo) GetByID(ctx context.Context, id uint) (*location.Location, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.locations[id]
	if !ok {
		return nil, location.ErrNotFound
	}
	return location.ReconstructLocation(row.id, row.areaName, row.networkAvailable)
}

func (r *locationRepo) Update(ctx context.Context, loc *location.Location) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.locations[loc.ID()]; !ok {
		return location.ErrNotFound
	}
	r.s.locations[loc.ID()] = locationRow{id: loc.ID(), areaName: loc.AreaName(), networkAvailable: loc.IsNetworkAvailable()}
	return nil
}

func (r *locationRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.locations[id]; !ok {
		return location.ErrNotFound
	}
	delete(r.s.locations, id)
	return nil
}

func (r *locationRepo) List(ctx context.Context, available *bool) ([]*location.Location, error) {
	defer r.s.lock(ctx)()
	var rows []locationRow
	for _, row := range r.s.locations {
		if available != nil && row.networkAvailable != *available {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	out := make([]*location.Location, 0, len(rows))
	for _, row := range rows {
		loc, err := location.ReconstructLocation(row.id, row.areaName, row.networkAvailable)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

type resourceRepo struct{ s *Store }

func (r *resourceRepo) Create(ctx context.Context, res *resource.Resource) error {
	defer r.s.lock(ctx)()
	id := r.s.allocateID()
	r.s.resources[id] = resourceRow{id: id, name: res.Name(), total: res.QuantityTotal(), available: res.QuantityAvailable()}
	return res.SetID(id)
}

func (r *resourceRepo) GetByID(ctx context.Context, id uint) (*resource.Resource, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.resources[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return resource.ReconstructResource(row.id, row.name, row.total, row.available)
}

func (r *resourceRepo) Update(ctx context.Context, res *resource.Resource) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.resources[res.ID()]; !ok {
		return resource.ErrNotFound
	}
	r.s.resources[res.ID()] = resourceRow{id: res.ID(), name: res.Name(), total: res.QuantityTotal(), available: res.QuantityAvailable()}
	return nil
}

func (r *resourceRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.resources[id]; !ok {
		return resource.ErrNotFound
	}
	delete(r.s.resources, id)
	return nil
}

func (r *resourceRepo) List(ctx context.Context, filter resource.ListFilter) ([]*resource.Resource, error) {
	defer r.s.lock(ctx)()
	var rows []resourceRow
	for _, row := range r.s.resources {
		if filter.Name != "" && !strings.Contains(row.name, filter.Name) {
			continue
		}
		if filter.AvailableOnly && row.available <= 0 {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	out := make([]*resource.Resource, 0, len(rows))
	for _, row := range rows {
		res, err := resource.ReconstructResource(row.id, row.name, row.total, row.available)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *resourceRepo) Reserve(ctx context.Context, resourceID uint, qty int) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.resources[resourceID]
	if !ok {
		return resource.ErrNotFound
	}
	if row.available < qty {
		return resource.ErrInsufficientQuantity
	}
	row.available -= qty
	r.s.resources[resourceID] = row
	return nil
}

func (r *resourceRepo) Release(ctx context.Context, resourceID uint, qty int) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.resources[resourceID]
	if !ok {
		return resource.ErrNotFound
	}
	row.available += qty
	if row.available > row.total {
		row.available = row.total
	}
	r.s.resources[resourceID] = row
	return nil
}

type requestRepo struct{ s *Store }

func (r *requestRepo) Create(ctx context.Context, req *request.Request) error {
	defer r.s.lock(ctx)()
	id := r.s.allocateID()
	r.s.requests[id] = requestRow{
		id:             id,
		userID:         req.UserID(),
		locationID:     req.LocationID(),
		connectionType: req.ConnectionType(),
		status:         req.Status(),
		createdAt:      req.CreatedAt(),
	}
	for _, alloc := range req.Allocations() {
		allocID := r.s.allocateID()
		r.s.allocations[allocID] = allocationRow{
			id:         allocID,
			requestID:  id,
			resourceID: alloc.ResourceID(),
			quantity:   alloc.QuantityUsed(),
		}
	}
	return req.SetID(id)
}

func (r *requestRepo) GetByID(ctx context.Context, id uint) (*request.Request, error) {
	defer r.s.lock(ctx)()
	row, ok := r.s.requests[id]
	if !ok {
		return nil, request.ErrNotFound
	}
	return r.toEntity(row)
}

func (r *requestRepo) toEntity(row requestRow) (*request.Request, error) {
	var allocRows []allocationRow
	for _, a := range r.s.allocations {
		if a.requestID == row.id {
			allocRows = append(allocRows, a)
		}
	}
	sort.Slice(allocRows, func(i, j int) bool { return allocRows[i].id < allocRows[j].id })
	allocations := make([]*request.Allocation, 0, len(allocRows))
	for _, a := range allocRows {
		name := fmt.Sprintf("resource #%d", a.resourceID)
		if res, ok := r.s.resources[a.resourceID]; ok {
			name = res.name
		}
		allocations = append(allocations, request.ReconstructAllocation(a.id, a.requestID, a.resourceID, name, a.quantity))
	}
	return request.ReconstructRequest(row.id, row.userID, row.locationID, row.connectionType, row.status, allocations, row.createdAt)
}

func (r *requestRepo) UpdateStatus(ctx context.Context, id uint, status request.Status) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.requests[id]
	if !ok {
		return request.ErrNotFound
	}
	row.status = status
	r.s.requests[id] = row
	return nil
}

func (r *requestRepo) MarkCancelled(ctx context.Context, id uint) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.requests[id]
	if !ok {
		return request.ErrNotFound
	}
	if row.status != request.StatusPending {
		return request.ErrNotPending
	}
	row.status = request.StatusCancelled
	r.s.requests[id] = row
	for allocID, a := range r.s.allocations {
		if a.requestID == id {
			delete(r.s.allocations, allocID)
		}
	}
	return nil
}

func (r *requestRepo) List(ctx context.Context, filter request.ListFilter, limit, offset int) ([]*request.Request, int64, error) {
	defer r.s.lock(ctx)()
	var rows []requestRow
	for _, row := range r.s.requests {
		if filter.UserID != 0 && row.userID != filter.UserID {
			continue
		}
		if filter.Status != "" && row.status != filter.Status {
			continue
		}
		if filter.StartDate != nil && row.createdAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && row.createdAt.After(*filter.EndDate) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].createdAt.After(rows[j].createdAt) })
	total := int64(len(rows))

	if limit > 0 {
		if offset >= len(rows) {
			rows = nil
		} else {
			end := offset + limit
			if end > len(rows) {
				end = len(rows)
			}
			rows = rows[offset:end]
		}
	}

	out := make([]*request.Request, 0, len(rows))
	for _, row := range rows {
		req, err := r.toEntity(row)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, nil
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(ctx context.Context, notif *notification.Notification) error {
	defer r.s.lock(ctx)()
	id := r.s.allocateID()
	r.s.notifications[id] = notificationRow{
		id:        id,
		userID:    notif.UserID(),
		message:   notif.Message(),
		seen:      notif.Seen(),
		createdAt: notif.CreatedAt(),
	}
	return notif.SetID(id)
}

func (r *notificationRepo) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*notification.Notification, int64, error) {
	defer r.s.lock(ctx)()
	var rows []notificationRow
	for _, row := range r.s.notifications {
		if row.userID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].id > rows[j].id })
	total := int64(len(rows))

	if limit > 0 {
		if offset >= len(rows) {
			rows = nil
		} else {
			end := offset + limit
			if end > len(rows) {
				end = len(rows)
			}
			rows = rows[offset:end]
		}
	}

	out := make([]*notification.Notification, 0, len(rows))
	for _, row := range rows {
		notif, err := notification.ReconstructNotification(row.id, row.userID, row.message, row.seen, row.createdAt)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, notif)
	}
	return out, total, nil
}

func (r *notificationRepo) CountUnseen(ctx context.Context, userID uint) (int64, error) {
	defer r.s.lock(ctx)()
	var count int64
	for _, row := range r.s.notifications {
		if row.userID == userID && !row.seen {
			count++
		}
	}
	return count, nil
}

func (r *notificationRepo) MarkSeen(ctx context.Context, id, userID uint) error {
	defer r.s.lock(ctx)()
	row, ok := r.s.notifications[id]
	if !ok || row.userID != userID {
		return notification.ErrNotFound
	}
	row.seen = true
	r.s.notifications[id] = row
	return nil
}
