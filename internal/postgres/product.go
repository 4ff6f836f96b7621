package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/attire-shop/attire/internal/domain"
)

const productColumns = `id, name, description, price, original_price, images,
	category, gender, sizes, colors, rating, reviews, stock, created_at, updated_at`

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	db DB
}

// Compile-time check that ProductStore implements domain.ProductStore.
var _ domain.ProductStore = (*ProductStore)(nil)

// NewProductStore creates a PostgreSQL-backed product store.
func NewProductStore(db DB) *ProductStore {
	return &ProductStore{db: db}
}

// List returns the whole catalog, newest first.
func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC, id DESC`, productColumns)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	return scanProducts(rows, "product.list")
}

// ListFiltered returns the products matching the selection, ordered by its
// sort field. The WHERE clause is assembled from the active filters only;
// an empty selection matches everything.
func (s *ProductStore) ListFiltered(ctx context.Context, sel domain.FilterSelection) ([]domain.Product, error) {
	query, args := buildFilterQuery(sel)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "product.list_filtered", "failed to list filtered products")
	}
	defer rows.Close()

	return scanProducts(rows, "product.list_filtered")
}

// GetByID returns a single product.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("product.get", "product", fmt.Sprintf("%d", id))
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}
	return p, nil
}

// Facets returns the distinct categories, genders and sizes in the catalog.
func (s *ProductStore) Facets(ctx context.Context) (*domain.ProductFacets, error) {
	facets := &domain.ProductFacets{}

	var err error
	facets.Categories, err = s.distinct(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, domain.Internal(err, "product.facets", "failed to list categories")
	}

	facets.Genders, err = s.distinct(ctx, `SELECT DISTINCT gender FROM products ORDER BY gender`)
	if err != nil {
		return nil, domain.Internal(err, "product.facets", "failed to list genders")
	}

	facets.Sizes, err = s.distinct(ctx, `SELECT DISTINCT unnest(sizes) AS size FROM products ORDER BY size`)
	if err != nil {
		return nil, domain.Internal(err, "product.facets", "failed to list sizes")
	}

	return facets, nil
}

// Count returns the total number of products in the catalog.
func (s *ProductStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, domain.Internal(err, "product.count", "failed to count products")
	}
	return count, nil
}

func (s *ProductStore) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// buildFilterQuery translates a selection into SQL. It mirrors
// FilterSelection.Matches and Apply exactly: conjunctive optional filters,
// inclusive price bounds, and created_at DESC as the default order and the
// tie-break for every explicit sort.
func buildFilterQuery(sel domain.FilterSelection) (string, []any) {
	var (
		where []string
		args  []any
	)

	if sel.SearchQuery != "" {
		args = append(args, "%"+sel.SearchQuery+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if len(sel.SelectedCategories) > 0 {
		args = append(args, sel.SelectedCategories)
		where = append(where, fmt.Sprintf("category = ANY($%d)", len(args)))
	}

	if len(sel.SelectedGenders) > 0 {
		args = append(args, sel.SelectedGenders)
		where = append(where, fmt.Sprintf("gender = ANY($%d)", len(args)))
	}

	if len(sel.SelectedSizes) > 0 {
		args = append(args, sel.SelectedSizes)
		where = append(where, fmt.Sprintf("sizes && $%d", len(args)))
	}

	if min, max, hasMax, ok := sel.PriceBounds(); ok {
		args = append(args, min)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
		if hasMax {
			args = append(args, max)
			where = append(where, fmt.Sprintf("price <= $%d", len(args)))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM products", productColumns)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	switch sel.SortBy {
	case domain.SortName:
		sb.WriteString(" ORDER BY name ASC, created_at DESC, id DESC")
	case domain.SortPriceLow:
		sb.WriteString(" ORDER BY price ASC, created_at DESC, id DESC")
	case domain.SortPriceHigh:
		sb.WriteString(" ORDER BY price DESC, created_at DESC, id DESC")
	case domain.SortRating:
		sb.WriteString(" ORDER BY rating DESC, created_at DESC, id DESC")
	default:
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
	}

	return sb.String(), args
}

func scanProducts(rows pgx.Rows, op string) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan product")
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read products")
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		stock int
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Images, &p.Category, &p.Gender, &p.Sizes, &p.Colors,
		&p.Rating, &p.Reviews, &stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.InStock = stock > 0
	return &p, nil
}
