package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

// SeedService генерирует тестовые данные для разработки.
type SeedService struct {
	users    *repository.UserRepository
	listings *repository.ListingRepository
}

// NewSeedService создаёт сервис генерации данных.
func NewSeedService(users *repository.UserRepository, listings *repository.ListingRepository) *SeedService {
	return &SeedService{
		users:    users,
		listings: listings,
	}
}

// SeedAccount учётные данные сгенерированного аккаунта.
type SeedAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SeedResult итог генерации.
type SeedResult struct {
	Accounts    []SeedAccount `json:"accounts"`
	NumListings int           `json:"num_listings"`
}

const seedPassword = "password123"

var seedDonorNames = []string{
	"Пекарня «Утро»", "Ресторан «Ладья»", "Кафе «Самовар»", "Столовая №7",
	"Кондитерская «Эклер»", "Пиццерия «Колесо»", "Бистро «Перекрёсток»",
}

var seedNgoNames = []string{
	"Фонд «Добрая тарелка»", "Ночлежка", "Центр «Тёплый дом»",
	"Банк еды «Запас»", "Волонтёры района", "Приют «Гавань»",
}

var seedTitles = []string{
	"Хлеб и выпечка вчерашнего дня", "Готовые обеды", "Овощи и фрукты",
	"Молочные продукты", "Супы в контейнерах", "Крупы и бакалея",
	"Сэндвичи и салаты", "Кондитерские изделия",
}

var seedFoodTypes = []string{
	models.FoodTypePrepared, models.FoodTypeBakery, models.FoodTypeProduce,
	models.FoodTypeDairy, models.FoodTypeGrocery,
}

// Seed создаёт рестораны, НКО и объявления.
func (s *SeedService) Seed(ctx context.Context, numDonors, numNgos, numListings int) (*SeedResult, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	passHash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("seed service: %w", err)
	}

	result := &SeedResult{}
	var donors []*models.User

	for i := 0; i < numDonors; i++ {
		user, err := s.createUser(ctx, fmt.Sprintf("donor%d@foodshare.dev", i+1), string(passHash),
			models.RoleDonor, seedDonorNames[i%len(seedDonorNames)], rng)
		if err != nil {
			return nil, err
		}
		donors = append(donors, user)
		result.Accounts = append(result.Accounts, SeedAccount{Email: user.Email, Password: seedPassword, Role: user.Role})
	}

	for i := 0; i < numNgos; i++ {
		user, err := s.createUser(ctx, fmt.Sprintf("ngo%d@foodshare.dev", i+1), string(passHash),
			models.RoleNGO, seedNgoNames[i%len(seedNgoNames)], rng)
		if err != nil {
			return nil, err
		}
		result.Accounts = append(result.Accounts, SeedAccount{Email: user.Email, Password: seedPassword, Role: user.Role})
	}

	if len(donors) == 0 {
		return result, nil
	}

	now := time.Now()
	for i := 0; i < numListings; i++ {
		donor := donors[rng.Intn(len(donors))]
		expires := now.Add(time.Duration(6+rng.Intn(48)) * time.Hour)
		pickupStart := now.Add(time.Duration(1+rng.Intn(3)) * time.Hour)
		pickupEnd := pickupStart.Add(time.Duration(2+rng.Intn(4)) * time.Hour)
		if pickupEnd.After(expires) {
			pickupEnd = expires
		}

		listing := &models.Listing{
			DonorID:      donor.ID,
			Title:        seedTitles[rng.Intn(len(seedTitles))],
			FoodType:     seedFoodTypes[rng.Intn(len(seedFoodTypes))],
			Quantity:     float64(1 + rng.Intn(20)),
			QuantityUnit: "кг",
			PreparedAt:   now.Add(-time.Duration(1+rng.Intn(6)) * time.Hour),
			ExpiresAt:    expires,
			PickupStart:  pickupStart,
			PickupEnd:    pickupEnd,
			Status:       models.ListingStatusPosted,
			Address:      fmt.Sprintf("ул. Примерная, д. %d", 1+rng.Intn(100)),
			Photos:       []string{},
			Allergens:    []string{},
		}
		if err := s.listings.Create(ctx, listing); err != nil {
			return nil, fmt.Errorf("seed service: не удалось создать объявление: %w", err)
		}
		result.NumListings++
	}

	return result, nil
}

func (s *SeedService) createUser(ctx context.Context, email, passHash, role, displayName string, rng *rand.Rand) (*models.User, error) {
	user := &models.User{
		Email:        email,
		PasswordHash: passHash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("seed service: не удалось создать пользователя %s: %w", email, err)
	}

	phone := fmt.Sprintf("+7 (900) %03d-%02d-%02d", rng.Intn(1000), rng.Intn(100), rng.Intn(100))
	address := fmt.Sprintf("ул. Центральная, д. %d", 1+rng.Intn(100))
	profile := &models.Profile{
		UserID:      user.ID,
		DisplayName: displayName,
		Phone:       &phone,
		Address:     &address,
	}
	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("seed service: не удалось создать профиль: %w", err)
	}
	return user, nil
}
