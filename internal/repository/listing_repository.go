package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/foodshare/foodshare-backend/internal/models"
)

// Ошибки уровня репозитория.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrRequestNotFound = errors.New("request not found")

	// ErrListingNotAvailable возвращается, когда условный переход статуса
	// не прошёл: объявление уже недоступно для заявок (confirmed, expired,
	// cancelled, completed).
	ErrListingNotAvailable = errors.New("listing not available")

	// ErrAlreadyResolved возвращается, когда объявление уже покинуло статус
	// requested: другой вызов accept выиграл гонку.
	ErrAlreadyResolved = errors.New("listing already resolved")

	// ErrDuplicateRequest возвращается при попытке НКО подать вторую
	// активную заявку на то же объявление.
	ErrDuplicateRequest = errors.New("active request already exists")

	// ErrRequestNotPending возвращается, если заявка уже не в статусе pending.
	ErrRequestNotPending = errors.New("request is not pending")
)

const uniqueViolation = "23505"

// ListingRepository отвечает за работу с объявлениями и заявками на самовывоз.
// Все мутации статусов выполняются условными UPDATE по текущему статусу:
// строка объявления — единственная точка сериализации для гонок accept/reject.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository создаёт новый экземпляр.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, donor_id, title, description, food_type, quantity, quantity_unit,
	       prepared_at, expires_at, pickup_start, pickup_end, status, address,
	       photos, allergens, storage_notes, created_at, updated_at`

// Create сохраняет новое объявление.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (donor_id, title, description, food_type, quantity, quantity_unit,
		                      prepared_at, expires_at, pickup_start, pickup_end, status, address,
		                      photos, allergens, storage_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(
		ctx,
		query,
		listing.DonorID,
		listing.Title,
		listing.Description,
		listing.FoodType,
		listing.Quantity,
		listing.QuantityUnit,
		listing.PreparedAt,
		listing.ExpiresAt,
		listing.PickupStart,
		listing.PickupEnd,
		listing.Status,
		listing.Address,
		pq.Array([]string(listing.Photos)),
		pq.Array([]string(listing.Allergens)),
		listing.StorageNotes,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
}

// GetByID возвращает объявление по идентификатору.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if err := r.db.GetContext(ctx, &listing, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing repository: get by id %w", err)
	}
	return &listing, nil
}

// ListingFilterParams параметры фильтрации каталога объявлений.
type ListingFilterParams struct {
	Status   models.ListingStatus
	FoodType string
	Search   string
	Limit    int
	Offset   int
}

// ListingListResult результат выборки с общим количеством для пагинации.
type ListingListResult struct {
	Listings []models.Listing `json:"listings"`
	Total    int              `json:"total"`
}

// List возвращает объявления с фильтрацией и поиском.
func (r *ListingRepository) List(ctx context.Context, params ListingFilterParams) (*ListingListResult, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.FoodType != "" {
		args = append(args, params.FoodType)
		where = append(where, fmt.Sprintf("food_type = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM listings WHERE ` + whereClause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("listing repository: count %w", err)
	}

	args = append(args, params.Limit)
	limitPos := len(args)
	args = append(args, params.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s FROM listings
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, listingColumns, whereClause, limitPos, offsetPos)

	var listings []models.Listing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("listing repository: list %w", err)
	}

	return &ListingListResult{Listings: listings, Total: total}, nil
}

// ListByDonor возвращает объявления ресторана вместе с количеством заявок.
func (r *ListingRepository) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Listing, error) {
	query := `
		SELECT l.*, COUNT(r.id) AS requests_count
		FROM listings l
		LEFT JOIN requests r ON r.listing_id = l.id
		WHERE l.donor_id = $1
		GROUP BY l.id
		ORDER BY l.created_at DESC
	`
	var listings []models.Listing
	if err := r.db.SelectContext(ctx, &listings, query, donorID); err != nil {
		return nil, fmt.Errorf("listing repository: list by donor %w", err)
	}
	return listings, nil
}

// UpdateDetails изменяет содержимое объявления (не статус). Разрешено
// только пока объявление в статусе posted — после первой заявки поля
// зафиксированы для честности арбитража.
func (r *ListingRepository) UpdateDetails(ctx context.Context, listing *models.Listing) error {
	query := `
		UPDATE listings
		SET title = $2,
		    description = $3,
		    food_type = $4,
		    quantity = $5,
		    quantity_unit = $6,
		    expires_at = $7,
		    pickup_start = $8,
		    pickup_end = $9,
		    address = $10,
		    photos = $11,
		    allergens = $12,
		    storage_notes = $13,
		    updated_at = NOW()
		WHERE id = $1 AND status = 'posted'
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.FoodType,
		listing.Quantity,
		listing.QuantityUnit,
		listing.ExpiresAt,
		listing.PickupStart,
		listing.PickupEnd,
		listing.Address,
		pq.Array([]string(listing.Photos)),
		pq.Array([]string(listing.Allergens)),
		listing.StorageNotes,
	).Scan(&listing.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrListingNotAvailable
	}
	if err != nil {
		return fmt.Errorf("listing repository: update details %w", err)
	}
	return nil
}

// UpdateStatusIf выполняет условный переход статуса: строка обновляется
// только если текущий статус входит в from. Возвращает false, если
// предусловие не выполнилось (без ошибки) — вызывающая сторона решает,
// конфликт это или no-op.
func (r *ListingRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []models.ListingStatus, to models.ListingStatus) (bool, error) {
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE listings
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`, id, to, pq.Array(statuses))
	if err != nil {
		return false, fmt.Errorf("listing repository: update status %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("listing repository: rows affected %w", err)
	}
	return rows > 0, nil
}

// ExpireIfDue переводит конкретное объявление в expired, если срок вышел.
// Идемпотентно: повторный вызов для уже просроченного объявления — no-op.
func (r *ListingRepository) ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1 AND status IN ('posted', 'requested') AND expires_at <= $2
	`, id, now)
	if err != nil {
		return false, fmt.Errorf("listing repository: expire %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("listing repository: rows affected %w", err)
	}
	return rows > 0, nil
}

// ExpireDue переводит все просроченные объявления в expired и возвращает их
// для рассылки уведомлений. Используется фоновым свипером.
func (r *ListingRepository) ExpireDue(ctx context.Context, now time.Time) ([]models.Listing, error) {
	query := `
		UPDATE listings
		SET status = 'expired', updated_at = NOW()
		WHERE status IN ('posted', 'requested') AND expires_at <= $1
		RETURNING ` + listingColumns
	var expired []models.Listing
	if err := r.db.SelectContext(ctx, &expired, query, now); err != nil {
		return nil, fmt.Errorf("listing repository: expire due %w", err)
	}
	return expired, nil
}

// CreateRequest атомарно создаёт заявку и переводит объявление в requested.
// Переход идемпотентен: пока объявление в posted или requested и срок не
// вышел, новые заявки принимаются, а статус requested выставляется ровно
// один раз.
func (r *ListingRepository) CreateRequest(ctx context.Context, request *models.Request) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("listing repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE listings
		SET status = 'requested', updated_at = NOW()
		WHERE id = $1 AND status IN ('posted', 'requested') AND expires_at > NOW()
	`, request.ListingID)
	if err != nil {
		return fmt.Errorf("listing repository: claim listing %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("listing repository: rows affected %w", err)
	}
	if rows == 0 {
		err = ErrListingNotAvailable
		return err
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO requests (listing_id, ngo_id, message, pickup_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, request.ListingID, request.NgoID, request.Message, request.PickupAt, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			err = ErrDuplicateRequest
			return err
		}
		return fmt.Errorf("listing repository: insert request %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("listing repository: commit %w", err)
	}
	return nil
}

// GetRequestByID возвращает заявку по идентификатору.
func (r *ListingRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var request models.Request
	if err := r.db.GetContext(ctx, &request, `SELECT * FROM requests WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("listing repository: get request %w", err)
	}
	return &request, nil
}

// ListRequests возвращает заявки по объявлению.
func (r *ListingRepository) ListRequests(ctx context.Context, listingID uuid.UUID) ([]models.Request, error) {
	var requests []models.Request
	query := `SELECT * FROM requests WHERE listing_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query, listingID); err != nil {
		return nil, fmt.Errorf("listing repository: list requests %w", err)
	}
	return requests, nil
}

// ListRequestsByNgo возвращает все заявки НКО.
func (r *ListingRepository) ListRequestsByNgo(ctx context.Context, ngoID uuid.UUID) ([]models.Request, error) {
	var requests []models.Request
	query := `SELECT * FROM requests WHERE ngo_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &requests, query, ngoID); err != nil {
		return nil, fmt.Errorf("listing repository: list requests by ngo %w", err)
	}
	return requests, nil
}

// GetAcceptedRequest возвращает принятую заявку объявления, если она есть.
func (r *ListingRepository) GetAcceptedRequest(ctx context.Context, listingID uuid.UUID) (*models.Request, error) {
	var request models.Request
	query := `SELECT * FROM requests WHERE listing_id = $1 AND status = 'accepted'`
	if err := r.db.GetContext(ctx, &request, query, listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("listing repository: get accepted request %w", err)
	}
	return &request, nil
}

// AcceptRequest атомарно назначает единственного победителя: объявление
// переводится requested → confirmed условным UPDATE (с повторной проверкой
// срока годности), заявка-победитель становится accepted, все остальные
// pending заявки того же объявления — rejected. Ровно один accept на
// объявление может пройти; проигравший вызов получает ErrAlreadyResolved
// без каких-либо записей.
func (r *ListingRepository) AcceptRequest(ctx context.Context, listingID, requestID uuid.UUID) (*models.Request, []models.Request, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("listing repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE listings
		SET status = 'confirmed', updated_at = NOW()
		WHERE id = $1 AND status = 'requested' AND expires_at > NOW()
	`, listingID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing repository: confirm listing %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, nil, fmt.Errorf("listing repository: rows affected %w", err)
	}
	if rows == 0 {
		err = ErrAlreadyResolved
		return nil, nil, err
	}

	var accepted models.Request
	err = tx.QueryRowxContext(ctx, `
		UPDATE requests
		SET status = 'accepted', updated_at = NOW()
		WHERE id = $1 AND listing_id = $2 AND status = 'pending'
		RETURNING id, listing_id, ngo_id, message, pickup_at, status, created_at, updated_at
	`, requestID, listingID).StructScan(&accepted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Заявку успели отклонить параллельно — откатываем confirmed.
			err = ErrRequestNotPending
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("listing repository: accept request %w", err)
	}

	var rejected []models.Request
	err = tx.SelectContext(ctx, &rejected, `
		UPDATE requests
		SET status = 'rejected', updated_at = NOW()
		WHERE listing_id = $1 AND id <> $2 AND status = 'pending'
		RETURNING id, listing_id, ngo_id, message, pickup_at, status, created_at, updated_at
	`, listingID, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing repository: reject siblings %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("listing repository: commit %w", err)
	}
	return &accepted, rejected, nil
}

// RejectRequest отклоняет заявку и, если это была последняя pending заявка,
// возвращает объявление в posted. Возвращает обновлённую заявку и признак
// отката статуса объявления.
func (r *ListingRepository) RejectRequest(ctx context.Context, listingID, requestID uuid.UUID) (*models.Request, bool, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("listing repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var rejected models.Request
	err = tx.QueryRowxContext(ctx, `
		UPDATE requests
		SET status = 'rejected', updated_at = NOW()
		WHERE id = $1 AND listing_id = $2 AND status = 'pending'
		RETURNING id, listing_id, ngo_id, message, pickup_at, status, created_at, updated_at
	`, requestID, listingID).StructScan(&rejected)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrRequestNotPending
			return nil, false, err
		}
		return nil, false, fmt.Errorf("listing repository: reject request %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE listings
		SET status = 'posted', updated_at = NOW()
		WHERE id = $1 AND status = 'requested'
		  AND NOT EXISTS (SELECT 1 FROM requests WHERE listing_id = $1 AND status = 'pending')
	`, listingID)
	if err != nil {
		return nil, false, fmt.Errorf("listing repository: revert listing %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("listing repository: rows affected %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("listing repository: commit %w", err)
	}
	return &rejected, rows > 0, nil
}
