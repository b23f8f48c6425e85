package usecase

import (
	"context"
	"io"

	"bookex/internal/domain/model"
	repo "bookex/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type BookRepoMock struct{ mock.Mock }

func (m *BookRepoMock) List(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Book)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *BookRepoMock) Search(ctx context.Context, q repo.BookSearchQuery) ([]model.Book, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Book)
	return items, args.Error(1)
}

func (m *BookRepoMock) FindByID(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) ListByOwner(ctx context.Context, ownerID int64) ([]model.Book, error) {
	args := m.Called(ctx, ownerID)
	items, _ := args.Get(0).([]model.Book)
	return items, args.Error(1)
}

func (m *BookRepoMock) ListByIDs(ctx context.Context, ids []int64) ([]model.Book, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]model.Book)
	return items, args.Error(1)
}

func (m *BookRepoMock) Create(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(model.Book)
	return created, args.Error(1)
}

func (m *BookRepoMock) Update(ctx context.Context, b model.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *BookRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BookRepoMock) IncreaseQuantity(ctx context.Context, id int64, qty int64) error {
	return m.Called(ctx, id, qty).Error(0)
}

type CartLineRepoMock struct{ mock.Mock }

func (m *CartLineRepoMock) ListActive(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartLine)
	return items, args.Error(1)
}

func (m *CartLineRepoMock) FindActive(ctx context.Context, userID int64, bookID int64) (model.CartLine, error) {
	args := m.Called(ctx, userID, bookID)
	l, _ := args.Get(0).(model.CartLine)
	return l, args.Error(1)
}

func (m *CartLineRepoMock) IncrementOrCreate(ctx context.Context, userID int64, bookID int64) (model.CartLine, error) {
	args := m.Called(ctx, userID, bookID)
	l, _ := args.Get(0).(model.CartLine)
	return l, args.Error(1)
}

func (m *CartLineRepoMock) UpdateQuantity(ctx context.Context, lineID int64, qty int64) error {
	return m.Called(ctx, lineID, qty).Error(0)
}

func (m *CartLineRepoMock) CheckoutActive(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartLineRepoMock) DeleteActive(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartLineRepoMock) PurchasedQuantity(ctx context.Context, userID int64, bookID int64) (int64, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CartLineRepoMock) PurchasedByBook(ctx context.Context, userID int64) (map[int64]int64, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(map[int64]int64)
	return out, args.Error(1)
}

func (m *CartLineRepoMock) DeleteByBookID(ctx context.Context, bookID int64) error {
	return m.Called(ctx, bookID).Error(0)
}

type ReturnRepoMock struct{ mock.Mock }

func (m *ReturnRepoMock) Create(ctx context.Context, r model.BookReturn) (model.BookReturn, error) {
	args := m.Called(ctx, r)
	out, _ := args.Get(0).(model.BookReturn)
	return out, args.Error(1)
}

func (m *ReturnRepoMock) ReturnedQuantity(ctx context.Context, userID int64, bookID int64) (int64, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReturnRepoMock) ReturnedByBook(ctx context.Context, userID int64) (map[int64]int64, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(map[int64]int64)
	return out, args.Error(1)
}

func (m *ReturnRepoMock) DeleteByBookID(ctx context.Context, bookID int64) error {
	return m.Called(ctx, bookID).Error(0)
}

type RateRepoMock struct{ mock.Mock }

func (m *RateRepoMock) Upsert(ctx context.Context, userID int64, bookID int64, rating int) error {
	return m.Called(ctx, userID, bookID, rating).Error(0)
}

func (m *RateRepoMock) ListByBook(ctx context.Context, bookID int64) ([]model.Rate, error) {
	args := m.Called(ctx, bookID)
	out, _ := args.Get(0).([]model.Rate)
	return out, args.Error(1)
}

func (m *RateRepoMock) Average(ctx context.Context, bookID int64) (*float64, error) {
	args := m.Called(ctx, bookID)
	out, _ := args.Get(0).(*float64)
	return out, args.Error(1)
}

func (m *RateRepoMock) AveragesByBook(ctx context.Context, bookIDs []int64) (map[int64]float64, error) {
	args := m.Called(ctx, bookIDs)
	out, _ := args.Get(0).(map[int64]float64)
	return out, args.Error(1)
}

func (m *RateRepoMock) DeleteByBookID(ctx context.Context, bookID int64) error {
	return m.Called(ctx, bookID).Error(0)
}

type CommentRepoMock struct{ mock.Mock }

func (m *CommentRepoMock) Create(ctx context.Context, c model.Comment) (model.Comment, error) {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).(model.Comment)
	return out, args.Error(1)
}

func (m *CommentRepoMock) FindByID(ctx context.Context, id int64) (model.Comment, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(model.Comment)
	return out, args.Error(1)
}

func (m *CommentRepoMock) ListByBook(ctx context.Context, bookID int64) ([]model.Comment, error) {
	args := m.Called(ctx, bookID)
	out, _ := args.Get(0).([]model.Comment)
	return out, args.Error(1)
}

func (m *CommentRepoMock) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CommentRepoMock) DeleteByBookID(ctx context.Context, bookID int64) error {
	return m.Called(ctx, bookID).Error(0)
}

type FavoriteRepoMock struct{ mock.Mock }

func (m *FavoriteRepoMock) Exists(ctx context.Context, userID int64, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepoMock) Add(ctx context.Context, userID int64, bookID int64) error {
	return m.Called(ctx, userID, bookID).Error(0)
}

func (m *FavoriteRepoMock) Remove(ctx context.Context, userID int64, bookID int64) error {
	return m.Called(ctx, userID, bookID).Error(0)
}

func (m *FavoriteRepoMock) ListBooks(ctx context.Context, userID int64) ([]model.Book, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]model.Book)
	return out, args.Error(1)
}

func (m *FavoriteRepoMock) CountByBook(ctx context.Context, bookID int64) (int64, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *FavoriteRepoMock) DeleteByBookID(ctx context.Context, bookID int64) error {
	return m.Called(ctx, bookID).Error(0)
}

type MenuRepoMock struct{ mock.Mock }

func (m *MenuRepoMock) List(ctx context.Context) ([]model.MainMenu, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.MainMenu)
	return out, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]model.AuditLog)
	return out, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User, role model.Role) error {
	return m.Called(ctx, user, role).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *UserRepoMock) FindProfile(ctx context.Context, userID int64) (model.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.UserProfile)
	return p, args.Error(1)
}

func (m *UserRepoMock) UpdateRole(ctx context.Context, userID int64, role model.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *UserRepoMock) ListGroupNames(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *UserRepoMock) AddToGroup(ctx context.Context, userID int64, groupName string) error {
	return m.Called(ctx, userID, groupName).Error(0)
}

func (m *UserRepoMock) RemoveFromGroup(ctx context.Context, userID int64, groupName string) error {
	return m.Called(ctx, userID, groupName).Error(0)
}

type ImageStoreMock struct{ mock.Mock }

func (m *ImageStoreMock) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	args := m.Called(ctx, filename, r)
	return args.String(0), args.Error(1)
}

func (m *ImageStoreMock) Delete(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

// tx内もtx外と同じmockを返す
type fakeTxRepos struct {
	books     *BookRepoMock
	cartLines *CartLineRepoMock
	returns   *ReturnRepoMock
	rates     *RateRepoMock
	comments  *CommentRepoMock
	favorites *FavoriteRepoMock
	audit     *AuditRepoMock
}

func (r *fakeTxRepos) Books() repo.BookRepository         { return r.books }
func (r *fakeTxRepos) CartLines() repo.CartLineRepository { return r.cartLines }
func (r *fakeTxRepos) Returns() repo.BookReturnRepository { return r.returns }
func (r *fakeTxRepos) Rates() repo.RateRepository         { return r.rates }
func (r *fakeTxRepos) Comments() repo.CommentRepository   { return r.comments }
func (r *fakeTxRepos) Favorites() repo.FavoriteRepository { return r.favorites }
func (r *fakeTxRepos) AuditLogs() repo.AuditLogRepository { return r.audit }

type fakeTxManager struct {
	repos *fakeTxRepos
	calls int
}

func (tm *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.calls++
	return fn(tm.repos)
}

// 全mockをまとめて作る
type mocks struct {
	books     *BookRepoMock
	cartLines *CartLineRepoMock
	returns   *ReturnRepoMock
	rates     *RateRepoMock
	comments  *CommentRepoMock
	favorites *FavoriteRepoMock
	menu      *MenuRepoMock
	audit     *AuditRepoMock
	users     *UserRepoMock
	images    *ImageStoreMock
	tx        *fakeTxManager
}

func newMocks() *mocks {
	m := &mocks{
		books:     &BookRepoMock{},
		cartLines: &CartLineRepoMock{},
		returns:   &ReturnRepoMock{},
		rates:     &RateRepoMock{},
		comments:  &CommentRepoMock{},
		favorites: &FavoriteRepoMock{},
		menu:      &MenuRepoMock{},
		audit:     &AuditRepoMock{},
		users:     &UserRepoMock{},
		images:    &ImageStoreMock{},
	}
	m.tx = &fakeTxManager{repos: &fakeTxRepos{
		books:     m.books,
		cartLines: m.cartLines,
		returns:   m.returns,
		rates:     m.rates,
		comments:  m.comments,
		favorites: m.favorites,
		audit:     m.audit,
	}}
	return m
}
