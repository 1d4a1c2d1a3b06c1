package products

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/catalog-api/internal/catalog/categories"
	"github.com/noah-isme/catalog-api/internal/shared"
)

type link struct {
	productID, categoryID int64
}

// memStore backs the in-memory repository fakes the service tests run
// against. Links mirror the product_categories join table.
type memStore struct {
	products map[int64]Product
	cats     map[int64]categories.Category
	links    map[link]bool
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[int64]Product),
		cats:     make(map[int64]categories.Category),
		links:    make(map[link]bool),
	}
}

func (s *memStore) next() int64 {
	s.nextID++
	return s.nextID
}

type memProductRepo struct {
	s *memStore
}

func (r *memProductRepo) List(ctx context.Context, maxPrice *decimal.Decimal) ([]Product, error) {
	out := []Product{}
	for _, p := range r.s.products {
		if maxPrice != nil && p.Price.GreaterThan(*maxPrice) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProductRepo) Get(ctx context.Context, id int64) (*Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) GetBySKU(ctx context.Context, sku string) (*Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) Search(ctx context.Context, fragment string) ([]Product, error) {
	out := []Product{}
	for _, p := range r.s.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(fragment)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memProductRepo) Create(ctx context.Context, p *Product) error {
	p.ID = r.s.next()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, p *Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return shared.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.s.products[p.ID] = *p
	return nil
}

func (r *memProductRepo) Delete(ctx context.Context, id int64) error {
	for l := range r.s.links {
		if l.productID == id {
			delete(r.s.links, l)
		}
	}
	if _, ok := r.s.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) AddCategory(ctx context.Context, productID, categoryID int64) error {
	r.s.links[link{productID, categoryID}] = true
	return nil
}

func (r *memProductRepo) RemoveCategory(ctx context.Context, productID, categoryID int64) error {
	delete(r.s.links, link{productID, categoryID})
	return nil
}

type memCategoryReader struct {
	s *memStore
}

func (r *memCategoryReader) Get(ctx context.Context, id int64) (*categories.Category, error) {
	c, ok := r.s.cats[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memCategoryReader) ListByProduct(ctx context.Context, productID int64) ([]categories.Category, error) {
	out := []categories.Category{}
	for l := range r.s.links {
		if l.productID == productID {
			out = append(out, r.s.cats[l.categoryID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(&memProductRepo{s: store}, &memCategoryReader{s: store}), store
}

func seedProduct(store *memStore, name, sku, price string) int64 {
	id := store.next()
	store.products[id] = Product{ID: id, Name: name, SKU: sku, Price: decimal.RequireFromString(price)}
	return id
}

func seedCategory(store *memStore, name string) int64 {
	id := store.next()
	store.cats[id] = categories.Category{ID: id, Name: name}
	return id
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Get(context.Background(), 999)
	require.Error(t, err)

	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "Product", nf.Resource)
	require.Equal(t, "id", nf.Field)
	require.Equal(t, int64(999), nf.Value)
	require.Equal(t, "Product not found with id: '999'", nf.Error())
}

func TestGetBySKUNotFoundKeyedOnSKU(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetBySKU(context.Background(), "NOPE-1")
	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "sku", nf.Field)
	require.Equal(t, "NOPE-1", nf.Value)
}

func TestGetEnrichesWithEmptyListNeverNil(t *testing.T) {
	svc, store := newTestService()
	id := seedProduct(store, "Atlas", "ATL-001", "9.99")

	dto, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, dto.Categories)
	require.Empty(t, dto.Categories)
}

func TestAddThenRemoveCategoryScenario(t *testing.T) {
	svc, store := newTestService()
	catID := seedCategory(store, "Books")
	prodID := seedProduct(store, "Atlas", "ATL-001", "9.99")

	dto, err := svc.AddCategory(context.Background(), prodID, catID)
	require.NoError(t, err)
	require.Len(t, dto.Categories, 1)
	require.Equal(t, catID, dto.Categories[0].ID)
	require.Equal(t, "Books", dto.Categories[0].Name)

	dto, err = svc.RemoveCategory(context.Background(), prodID, catID)
	require.NoError(t, err)
	require.NotNil(t, dto.Categories)
	require.Empty(t, dto.Categories)
}

func TestAddCategoryIdempotent(t *testing.T) {
	svc, store := newTestService()
	catID := seedCategory(store, "Books")
	prodID := seedProduct(store, "Atlas", "ATL-001", "9.99")

	_, err := svc.AddCategory(context.Background(), prodID, catID)
	require.NoError(t, err)
	dto, err := svc.AddCategory(context.Background(), prodID, catID)
	require.NoError(t, err)

	require.Len(t, dto.Categories, 1)
	require.Len(t, store.links, 1)
}

func TestRemoveCategoryTolerant(t *testing.T) {
	svc, store := newTestService()
	catID := seedCategory(store, "Books")
	prodID := seedProduct(store, "Atlas", "ATL-001", "9.99")

	dto, err := svc.RemoveCategory(context.Background(), prodID, catID)
	require.NoError(t, err)
	require.Empty(t, dto.Categories)
}

func TestAddCategoryMissingSides(t *testing.T) {
	svc, store := newTestService()
	catID := seedCategory(store, "Books")
	prodID := seedProduct(store, "Atlas", "ATL-001", "9.99")

	_, err := svc.AddCategory(context.Background(), 404, catID)
	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "Product", nf.Resource)

	_, err = svc.AddCategory(context.Background(), prodID, 404)
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "Category", nf.Resource)
	require.Empty(t, store.links, "no link may be written when a precondition fails")
}

func TestDeleteRemovesAssociationsFirst(t *testing.T) {
	svc, store := newTestService()
	catID := seedCategory(store, "Books")
	prodID := seedProduct(store, "Atlas", "ATL-001", "9.99")
	_, err := svc.AddCategory(context.Background(), prodID, catID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), prodID))

	_, err = svc.Get(context.Background(), prodID)
	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Empty(t, store.links)
}

func TestDeleteMissingProduct(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Delete(context.Background(), 42)
	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSearchEmptyFragmentMatchesAll(t *testing.T) {
	svc, store := newTestService()
	seedProduct(store, "Atlas", "ATL-001", "9.99")
	seedProduct(store, "Globe", "GLB-001", "24.50")

	found, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestSearchSubstringCaseInsensitive(t *testing.T) {
	svc, store := newTestService()
	seedProduct(store, "Atlas", "ATL-001", "9.99")
	seedProduct(store, "Globe", "GLB-001", "24.50")

	found, err := svc.Search(context.Background(), "atl")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Atlas", found[0].Name)
}

func TestListMaxPriceFilter(t *testing.T) {
	svc, store := newTestService()
	seedProduct(store, "Atlas", "ATL-001", "9.99")
	seedProduct(store, "Globe", "GLB-001", "24.50")

	ceiling := decimal.RequireFromString("10.00")
	found, err := svc.List(context.Background(), &ceiling)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Atlas", found[0].Name)

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCreateReturnsEnrichedDTO(t *testing.T) {
	svc, _ := newTestService()

	dto, err := svc.Create(context.Background(), CreateProductRequest{
		Name:  "Atlas",
		Price: decimal.RequireFromString("9.99"),
		SKU:   "ATL-001",
	})
	require.NoError(t, err)
	require.NotZero(t, dto.ID)
	require.NotNil(t, dto.Categories)
	require.Empty(t, dto.Categories)
	require.NotNil(t, dto.CreatedAt)
}

func TestUpdatePartialKeepsOmittedFields(t *testing.T) {
	svc, store := newTestService()
	id := seedProduct(store, "Atlas", "ATL-001", "9.99")

	name := "World Atlas"
	dto, err := svc.Update(context.Background(), id, UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	require.Equal(t, "World Atlas", dto.Name)
	require.Equal(t, "ATL-001", dto.SKU)
	require.True(t, decimal.RequireFromString("9.99").Equal(dto.Price))
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService()
	name := "X"
	_, err := svc.Update(context.Background(), 77, UpdateProductRequest{Name: &name})
	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, int64(77), nf.Value)
}

// raceDeleteRepo drops the row between the service's read and its write,
// simulating a delete that wins the race against an update.
type raceDeleteRepo struct {
	*memProductRepo
}

func (r *raceDeleteRepo) Update(ctx context.Context, p *Product) error {
	delete(r.s.products, p.ID)
	return r.memProductRepo.Update(ctx, p)
}

func TestUpdateLosingRaceWithDeleteIsNotFound(t *testing.T) {
	store := newMemStore()
	svc := NewService(&raceDeleteRepo{&memProductRepo{s: store}}, &memCategoryReader{s: store})
	id := seedProduct(store, "Atlas", "ATL-001", "9.99")

	name := "World Atlas"
	_, err := svc.Update(context.Background(), id, UpdateProductRequest{Name: &name})

	var nf *shared.NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "Product", nf.Resource)
	require.Equal(t, "id", nf.Field)
	require.Equal(t, id, nf.Value)
}
