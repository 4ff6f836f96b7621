package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/attire-shop/attire/internal/domain"
)

// ReviewStore implements domain.ReviewStore using PostgreSQL.
//
// Every mutation runs in a single transaction that locks the owning
// product row, writes the review, and recomputes the product's rating and
// review count in one UPDATE. The explicit lock is what serializes
// concurrent submissions for the same product: under read committed the
// aggregate subquery reads from the transaction snapshot, so without it
// two overlapping mutations would each aggregate without the other's row
// and the later commit would overwrite the earlier count.
type ReviewStore struct {
	db DB
}

var _ domain.ReviewStore = (*ReviewStore)(nil)

// NewReviewStore creates a PostgreSQL-backed review store.
func NewReviewStore(db DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// recomputeAggregate refreshes the product's derived rating (mean of all
// review ratings, 0 when none remain) and review count.
const recomputeAggregate = `
	UPDATE products SET
		rating = COALESCE(agg.avg_rating, 0),
		reviews = agg.review_count,
		updated_at = now()
	FROM (
		SELECT AVG(rating)::numeric(3,2) AS avg_rating, COUNT(*) AS review_count
		FROM reviews WHERE product_id = $1
	) AS agg
	WHERE id = $1`

// lockProduct takes a row lock on the product for the duration of the
// transaction. Must run before the review write and the aggregate
// recompute.
func lockProduct(ctx context.Context, tx pgx.Tx, op string, productID int64) error {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, productID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Errorf(domain.ENOTFOUND, op, "Product not found")
		}
		return domain.Internal(err, op, "failed to lock product")
	}
	return nil
}

// Create inserts a review and refreshes the product aggregate. A second
// review by the same user for the same product is a conflict.
func (s *ReviewStore) Create(ctx context.Context, userID int64, input domain.ReviewInput) (*domain.Review, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "review.create", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := lockProduct(ctx, tx, "review.create", input.ProductID); err != nil {
		return nil, err
	}

	var review domain.Review
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (product_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, product_id, user_id, rating, comment, created_at`,
		input.ProductID, userID, input.Rating, input.Comment,
	).Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrReviewExists
		}
		return nil, domain.Internal(err, "review.create", "failed to create review")
	}

	if _, err := tx.Exec(ctx, recomputeAggregate, input.ProductID); err != nil {
		return nil, domain.Internal(err, "review.create", "failed to update product rating")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "review.create", "failed to commit review")
	}

	return &review, nil
}

// Update replaces the rating and comment on the user's review of the
// product and refreshes the aggregate.
func (s *ReviewStore) Update(ctx context.Context, userID int64, input domain.ReviewInput) (*domain.Review, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, "review.update", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := lockProduct(ctx, tx, "review.update", input.ProductID); err != nil {
		return nil, err
	}

	var review domain.Review
	err = tx.QueryRow(ctx, `
		UPDATE reviews SET rating = $3, comment = $4
		WHERE user_id = $1 AND product_id = $2
		RETURNING id, product_id, user_id, rating, comment, created_at`,
		userID, input.ProductID, input.Rating, input.Comment,
	).Scan(&review.ID, &review.ProductID, &review.UserID, &review.Rating, &review.Comment, &review.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, domain.Internal(err, "review.update", "failed to update review")
	}

	if _, err := tx.Exec(ctx, recomputeAggregate, input.ProductID); err != nil {
		return nil, domain.Internal(err, "review.update", "failed to update product rating")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "review.update", "failed to commit review")
	}

	return &review, nil
}

// Delete removes the user's review of the product and refreshes the
// aggregate.
func (s *ReviewStore) Delete(ctx context.Context, userID, productID int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "review.delete", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := lockProduct(ctx, tx, "review.delete", productID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return domain.Internal(err, "review.delete", "failed to delete review")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReviewNotFound
	}

	if _, err := tx.Exec(ctx, recomputeAggregate, productID); err != nil {
		return domain.Internal(err, "review.delete", "failed to update product rating")
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "review.delete", "failed to commit delete")
	}

	return nil
}

// ListForProduct returns a product's reviews with reviewer usernames,
// newest first.
func (s *ReviewStore) ListForProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.product_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, productID)
	if err != nil {
		return nil, domain.Internal(err, "review.list_for_product", "failed to list reviews")
	}
	defer rows.Close()

	return scanReviews(rows, "review.list_for_product")
}

// ListForUser returns the user's reviews, newest first.
func (s *ReviewStore) ListForUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.product_id, r.user_id, u.username, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC`, userID)
	if err != nil {
		return nil, domain.Internal(err, "review.list_for_user", "failed to list reviews")
	}
	defer rows.Close()

	return scanReviews(rows, "review.list_for_user")
}

func scanReviews(rows pgx.Rows, op string) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Username, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, domain.Internal(err, op, "failed to scan review")
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read reviews")
	}
	return reviews, nil
}
