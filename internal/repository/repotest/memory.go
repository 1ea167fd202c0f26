// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"auctionhouse/internal/apperrors"
	"auctionhouse/internal/models"
	"auctionhouse/internal/repository"
)

// Store backs every repository. Setting Err makes all calls fail with it.
type Store struct {
	mu        sync.Mutex
	users     map[string]models.User
	roles     map[string]models.Role
	rolePerms map[string][]string
	perms     map[string]models.Permission
	auctions  map[string]models.Auction
	bids      []models.Bid

	Err error
}

func NewStore() *Store {
	return &Store{
		users:     map[string]models.User{},
		roles:     map[string]models.Role{},
		rolePerms: map[string][]string{},
		perms:     map[string]models.Permission{},
		auctions:  map[string]models.Auction{},
	}
}

func (s *Store) Users() repository.UserRepository             { return &UserRepo{s} }
func (s *Store) Roles() repository.RoleRepository             { return &RoleRepo{s} }
func (s *Store) Permissions() repository.PermissionRepository { return &PermissionRepo{s} }
func (s *Store) Auctions() repository.AuctionRepository       { return &AuctionRepo{s} }
func (s *Store) Bids() repository.BidRepository               { return &BidRepo{s} }

// Seed helpers insert directly and return the stored entity.

func (s *Store) AddPermission(id, name string) models.Permission {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Permission{ID: id, Name: name}
	s.perms[id] = p
	return p
}

func (s *Store) AddRole(id, name string, permissionIDs ...string) models.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[id] = models.Role{ID: id, Name: name}
	s.rolePerms[id] = append([]string(nil), permissionIDs...)
	return s.roleLocked(id)
}

func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return s.userLocked(u.ID)
}

func (s *Store) AddAuction(a models.Auction) models.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.Bids = nil
	s.auctions[a.ID] = a
	return s.auctionLocked(a.ID)
}

func (s *Store) AddBid(b models.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bids = append(s.bids, b)
}

// BidCount returns the number of stored bids for auctionID.
func (s *Store) BidCount(auctionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bids {
		if b.AuctionID == auctionID {
			n++
		}
	}
	return n
}

func (s *Store) userLocked(id string) models.User {
	u := s.users[id]
	u.Role = nil
	if u.RoleID != nil {
		if r, ok := s.roles[*u.RoleID]; ok {
			u.Role = &models.Role{ID: r.ID, Name: r.Name}
		}
	}
	return u
}

func (s *Store) roleLocked(id string) models.Role {
	r := s.roles[id]
	r.Permissions = make([]models.Permission, 0, len(s.rolePerms[id]))
	for _, pid := range s.rolePerms[id] {
		if p, ok := s.perms[pid]; ok {
			r.Permissions = append(r.Permissions, p)
		}
	}
	sort.Slice(r.Permissions, func(i, j int) bool { return r.Permissions[i].Name < r.Permissions[j].Name })
	return r
}

func (s *Store) auctionLocked(id string) models.Auction {
	a := s.auctions[id]
	a.Bids = make([]models.Bid, 0)
	for _, b := range s.bids {
		if b.AuctionID == id {
			a.Bids = append(a.Bids, b)
		}
	}
	sort.SliceStable(a.Bids, func(i, j int) bool { return a.Bids[i].CreatedAt.After(a.Bids[j].CreatedAt) })
	return a
}

type UserRepo struct{ s *Store }

func (r *UserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if _, ok := r.s.users[id]; !ok {
		return nil, nil
	}
	u := r.s.userLocked(id)
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for id, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			found := r.s.userLocked(id)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if err := r.checkLocked(u); err != nil {
		return err
	}
	stored := *u
	stored.Role = nil
	r.s.users[u.ID] = stored
	return nil
}

func (r *UserRepo) checkLocked(u *models.User) error {
	for id, other := range r.s.users {
		if id != u.ID && strings.EqualFold(other.Email, u.Email) {
			return apperrors.Conflict("email already registered")
		}
	}
	if u.RoleID != nil {
		if _, ok := r.s.roles[*u.RoleID]; !ok {
			return apperrors.InvalidInput("role does not exist")
		}
	}
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.users[u.ID]
	if !ok {
		return nil
	}
	if err := r.checkLocked(u); err != nil {
		return err
	}
	cur.Email, cur.FirstName, cur.LastName, cur.Avatar = u.Email, u.FirstName, u.LastName, u.Avatar
	cur.RoleID, cur.UpdatedAt = u.RoleID, u.UpdatedAt
	r.s.users[u.ID] = cur
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if u, ok := r.s.users[id]; ok {
		u.PasswordHash, u.UpdatedAt = hash, at
		r.s.users[id] = u
	}
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	all := make([]models.User, 0, len(r.s.users))
	for id := range r.s.users {
		all = append(all, r.s.userLocked(id))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []models.User{}, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (r *UserRepo) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	return len(r.s.users), nil
}

type RoleRepo struct{ s *Store }

func (r *RoleRepo) FindByID(_ context.Context, id string) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if _, ok := r.s.roles[id]; !ok {
		return nil, nil
	}
	role := r.s.roleLocked(id)
	return &role, nil
}

func (r *RoleRepo) FindByName(_ context.Context, name string) (*models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for id, role := range r.s.roles {
		if role.Name == name {
			found := r.s.roleLocked(id)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *RoleRepo) List(context.Context) ([]models.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Role, 0, len(r.s.roles))
	for id := range r.s.roles {
		out = append(out, r.s.roleLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *RoleRepo) checkLocked(role *models.Role, permissionIDs []string) error {
	for id, other := range r.s.roles {
		if id != role.ID && other.Name == role.Name {
			return apperrors.Conflict("role name already exists")
		}
	}
	for _, pid := range permissionIDs {
		if _, ok := r.s.perms[pid]; !ok {
			return apperrors.InvalidInput("unknown permission " + pid)
		}
	}
	return nil
}

func (r *RoleRepo) Create(_ context.Context, role *models.Role, permissionIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if err := r.checkLocked(role, permissionIDs); err != nil {
		return err
	}
	r.s.roles[role.ID] = models.Role{ID: role.ID, Name: role.Name, CreatedAt: role.CreatedAt, UpdatedAt: role.UpdatedAt}
	r.s.rolePerms[role.ID] = append([]string(nil), permissionIDs...)
	return nil
}

func (r *RoleRepo) Update(_ context.Context, role *models.Role, permissionIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	cur, ok := r.s.roles[role.ID]
	if !ok {
		return nil
	}
	if err := r.checkLocked(role, permissionIDs); err != nil {
		return err
	}
	cur.Name, cur.UpdatedAt = role.Name, role.UpdatedAt
	r.s.roles[role.ID] = cur
	if permissionIDs != nil {
		r.s.rolePerms[role.ID] = append([]string(nil), permissionIDs...)
	}
	return nil
}

func (r *RoleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.RoleID != nil && *u.RoleID == id {
			return apperrors.Conflict("role is assigned to users")
		}
	}
	delete(r.s.roles, id)
	delete(r.s.rolePerms, id)
	return nil
}

func (r *RoleRepo) CountUsers(_ context.Context, roleID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return 0, r.s.Err
	}
	n := 0
	for _, u := range r.s.users {
		if u.RoleID != nil && *u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

type PermissionRepo struct{ s *Store }

func (r *PermissionRepo) FindByID(_ context.Context, id string) (*models.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.perms[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PermissionRepo) FindByName(_ context.Context, name string) (*models.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, p := range r.s.perms {
		if p.Name == name {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *PermissionRepo) List(context.Context) ([]models.Permission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Permission, 0, len(r.s.perms))
	for _, p := range r.s.perms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PermissionRepo) Create(_ context.Context, p *models.Permission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, other := range r.s.perms {
		if other.Name == p.Name {
			return apperrors.Conflict("permission name already exists")
		}
	}
	r.s.perms[p.ID] = *p
	return nil
}

func (r *PermissionRepo) Update(_ context.Context, p *models.Permission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for id, other := range r.s.perms {
		if id != p.ID && other.Name == p.Name {
			return apperrors.Conflict("permission name already exists")
		}
	}
	if cur, ok := r.s.perms[p.ID]; ok {
		cur.Name, cur.UpdatedAt = p.Name, p.UpdatedAt
		r.s.perms[p.ID] = cur
	}
	return nil
}

func (r *PermissionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	delete(r.s.perms, id)
	for roleID, pids := range r.s.rolePerms {
		kept := pids[:0]
		for _, pid := range pids {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		r.s.rolePerms[roleID] = kept
	}
	return nil
}

type AuctionRepo struct{ s *Store }

func (r *AuctionRepo) FindByID(_ context.Context, id string) (*models.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if _, ok := r.s.auctions[id]; !ok {
		return nil, nil
	}
	a := r.s.auctionLocked(id)
	return &a, nil
}

func (r *AuctionRepo) Create(_ context.Context, a *models.Auction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stored := *a
	stored.Bids = nil
	r.s.auctions[a.ID] = stored
	return nil
}

func (r *AuctionRepo) Update(_ context.Context, a *models.Auction) error {
	return r.Create(context.Background(), a)
}

func (r *AuctionRepo) filter(keep func(models.Auction) bool, less func(a, b models.Auction) bool) ([]models.Auction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]models.Auction, 0)
	for id, a := range r.s.auctions {
		if keep(a) {
			out = append(out, r.s.auctionLocked(id))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func (r *AuctionRepo) ListActive(_ context.Context, now time.Time) ([]models.Auction, error) {
	return r.filter(
		func(a models.Auction) bool { return a.EndTime.After(now) },
		func(a, b models.Auction) bool { return a.EndTime.Before(b.EndTime) },
	)
}

func (r *AuctionRepo) ListByUser(_ context.Context, userID string) ([]models.Auction, error) {
	return r.filter(
		func(a models.Auction) bool { return a.UserID == userID },
		func(a, b models.Auction) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
}

type BidRepo struct{ s *Store }

func (r *BidRepo) Create(_ context.Context, b *models.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.auctions[b.AuctionID]; !ok {
		return apperrors.NotFound("auction not found")
	}
	r.s.bids = append(r.s.bids, *b)
	return nil
}

var (
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.RoleRepository       = (*RoleRepo)(nil)
	_ repository.PermissionRepository = (*PermissionRepo)(nil)
	_ repository.AuctionRepository    = (*AuctionRepo)(nil)
	_ repository.BidRepository        = (*BidRepo)(nil)
)
