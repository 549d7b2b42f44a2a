// Package repotest provides in-memory repositories for tests that should not
// need a running database.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
)

// NewStore returns a Store backed entirely by memory.
func NewStore() *repository.Store {
	return &repository.Store{
		Users:        NewUsers(),
		Meals:        &Meals{},
		Orders:       &Orders{},
		Purchases:    &Purchases{},
		Favorites:    &Favorites{},
		MealPlans:    &MealPlans{},
		ActivityLogs: &ActivityLogs{},
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

type Users struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.User
	order []primitive.ObjectID
}

func NewUsers() *Users {
	return &Users{byID: make(map[primitive.ObjectID]*models.User)}
}

func (u *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.byID {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *Users) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, user := range u.byID {
		if googleID != "" && user.GoogleID == googleID {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) Create(_ context.Context, user *models.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, existing := range u.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	u.byID[user.ID] = &cp
	u.order = append(u.order, user.ID)
	return nil
}

func (u *Users) mutate(id string, fn func(*models.User)) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(user)
	user.UpdatedAt = time.Now()
	cp := *user
	return &cp, nil
}

func (u *Users) MarkVerified(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	user, ok := u.byID[oid]
	if !ok {
		return repository.ErrNotFound
	}
	if user.IsVerified {
		return repository.ErrUnchanged
	}
	user.IsVerified = true
	user.UpdatedAt = time.Now()
	return nil
}

func (u *Users) SetPassword(_ context.Context, id, passwordHash string) error {
	_, err := u.mutate(id, func(user *models.User) { user.Password = passwordHash })
	return err
}

func (u *Users) LinkGoogle(_ context.Context, id, googleID string) error {
	_, err := u.mutate(id, func(user *models.User) {
		user.GoogleID = googleID
		user.IsVerified = true
	})
	return err
}

func (u *Users) UpdateProfile(_ context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	return u.mutate(id, func(user *models.User) {
		if update.Name != nil {
			user.Name = *update.Name
		}
		if update.Phone != nil {
			user.Phone = *update.Phone
		}
		if update.Address != nil {
			user.Address = *update.Address
		}
		if update.Bio != nil {
			user.Bio = *update.Bio
		}
		if update.AvatarURL != nil {
			user.AvatarURL = *update.AvatarURL
		}
	})
}

func (u *Users) Count(context.Context) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return int64(len(u.byID)), nil
}

type Meals struct {
	mu    sync.Mutex
	items []models.Meal
	// Lists counts List calls so cache tests can assert on store hits.
	Lists int
}

func (m *Meals) List(_ context.Context, f models.MealFilter) ([]models.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lists++
	out := make([]models.Meal, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		meal := m.items[i]
		if f.Category != "" && !strings.EqualFold(meal.Category, f.Category) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(meal.Name), strings.ToLower(f.Search)) {
			continue
		}
		if f.MinPrice != nil && meal.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && meal.Price > *f.MaxPrice {
			continue
		}
		if f.CreatedBy != "" && meal.CreatedBy != f.CreatedBy {
			continue
		}
		out = append(out, meal)
	}
	return out, nil
}

func (m *Meals) FindByID(_ context.Context, id string) (*models.Meal, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, meal := range m.items {
		if meal.ID == oid {
			cp := meal
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Meals) Create(_ context.Context, meal *models.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	meal.ID = primitive.NewObjectID()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	m.items = append(m.items, *meal)
	return nil
}

func (m *Meals) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

type Orders struct {
	mu    sync.Mutex
	items []models.Order
}

func (o *Orders) List(_ context.Context, userID string) ([]models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]models.Order, 0, len(o.items))
	for i := len(o.items) - 1; i >= 0; i-- {
		if userID == "" || o.items[i].UserID == userID {
			out = append(out, o.items[i])
		}
	}
	return out, nil
}

func (o *Orders) FindByID(_ context.Context, id string) (*models.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, order := range o.items {
		if order.ID == oid {
			cp := order
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (o *Orders) Create(_ context.Context, order *models.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	o.items = append(o.items, *order)
	return nil
}

func (o *Orders) Count(context.Context) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return int64(len(o.items)), nil
}

type Purchases struct {
	mu    sync.Mutex
	items []models.Purchase
}

func (p *Purchases) List(_ context.Context, userID string) ([]models.Purchase, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Purchase, 0, len(p.items))
	for i := len(p.items) - 1; i >= 0; i-- {
		if userID == "" || p.items[i].UserID == userID {
			out = append(out, p.items[i])
		}
	}
	return out, nil
}

func (p *Purchases) FindByID(_ context.Context, id string) (*models.Purchase, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, purchase := range p.items {
		if purchase.ID == oid {
			cp := purchase
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (p *Purchases) Create(_ context.Context, purchase *models.Purchase) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	purchase.ID = primitive.NewObjectID()
	purchase.CreatedAt = time.Now()
	if purchase.Status == "" {
		purchase.Status = "completed"
	}
	p.items = append(p.items, *purchase)
	return nil
}

func (p *Purchases) Count(context.Context) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int64(len(p.items)), nil
}

type Favorites struct {
	mu    sync.Mutex
	items []models.Favorite
}

func (f *Favorites) List(_ context.Context, userID string) ([]models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Favorite, 0)
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *Favorites) Exists(_ context.Context, userID, mealID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexOf(userID, mealID) >= 0, nil
}

func (f *Favorites) indexOf(userID, mealID string) int {
	for i, fav := range f.items {
		if fav.UserID == userID && fav.MealID == mealID {
			return i
		}
	}
	return -1
}

func (f *Favorites) Create(_ context.Context, favorite *models.Favorite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexOf(favorite.UserID, favorite.MealID) >= 0 {
		return repository.ErrDuplicate
	}
	favorite.ID = primitive.NewObjectID()
	favorite.CreatedAt = time.Now()
	f.items = append(f.items, *favorite)
	return nil
}

func (f *Favorites) Delete(_ context.Context, userID, mealID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOf(userID, mealID); i >= 0 {
		f.items = append(f.items[:i], f.items[i+1:]...)
	}
	return nil
}

type MealPlans struct {
	mu    sync.Mutex
	items []models.MealPlan
}

func (m *MealPlans) List(_ context.Context, userID string) ([]models.MealPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.MealPlan, 0, len(m.items))
	for i := len(m.items) - 1; i >= 0; i-- {
		if userID == "" || m.items[i].UserID == userID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

func (m *MealPlans) FindByID(_ context.Context, id string) (*models.MealPlan, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, plan := range m.items {
		if plan.ID == oid {
			cp := plan
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MealPlans) Create(_ context.Context, plan *models.MealPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	m.items = append(m.items, *plan)
	return nil
}

func (m *MealPlans) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.items)), nil
}

type ActivityLogs struct {
	mu    sync.Mutex
	items []models.ActivityLog
}

func (a *ActivityLogs) Append(_ context.Context, entry *models.ActivityLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	now := time.Now()
	entry.ID = primitive.NewObjectID().Hex()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	a.items = append(a.items, *entry)
	return nil
}

func (a *ActivityLogs) List(_ context.Context, limit, skip int64) ([]models.ActivityLog, int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sorted := make([]models.ActivityLog, len(a.items))
	copy(sorted, a.items)
	// Stable on insertion order so equal timestamps still come back newest first.
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })

	total := int64(len(sorted))
	if skip >= total {
		return []models.ActivityLog{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return sorted[skip:end], total, nil
}

// Actions returns the recorded tags in insertion order.
func (a *ActivityLogs) Actions() []models.ActivityAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.ActivityAction, 0, len(a.items))
	for _, entry := range a.items {
		out = append(out, entry.Action)
	}
	return out
}
