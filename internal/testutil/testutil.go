// Package testutil monta um banco SQLite em memória com o mesmo schema da
// produção e oferece seeds para os testes dos pacotes.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const ShopTimezone = "America/Sao_Paulo"

var seq atomic.Int64

// NewDB abre um SQLite em memória. Uma única conexão: tudo que roda
// dentro de uma transação precisa usar o handle da transação.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Day devolve o dia civil de hoje+offset no fuso da barbearia (meia-noite UTC).
func Day(offset int) time.Time {
	return timezone.DateOf(timezone.NowIn(ShopTimezone)).AddDate(0, 0, offset)
}

// At monta day às hour:min no fuso da barbearia.
func At(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, timezone.Location(ShopTimezone))
}

// ======================================================
// SEEDS
// ======================================================

func SeedShop(t testing.TB, gdb *gorm.DB) *models.Barbershop {
	t.Helper()

	n := seq.Add(1)
	shop := &models.Barbershop{
		Name:              fmt.Sprintf("Barbearia %d", n),
		Slug:              fmt.Sprintf("barbearia-%d", n),
		Timezone:          ShopTimezone,
		MinAdvanceMinutes: 60,
	}
	require.NoError(t, gdb.Create(shop).Error)
	return shop
}

func SeedUser(t testing.TB, gdb *gorm.DB, shopID uint, role string) *models.User {
	t.Helper()

	n := seq.Add(1)
	user := &models.User{
		BarbershopID: shopID,
		Name:         fmt.Sprintf("Usuário %d", n),
		Email:        fmt.Sprintf("user%d@barbearia.test", n),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, gdb.Omit("Barbershop").Create(user).Error)
	return user
}

func SeedBarber(t testing.TB, gdb *gorm.DB, shopID uint, name string, rating float64) *models.Barber {
	t.Helper()

	user := SeedUser(t, gdb, shopID, models.RoleBarber)
	barber := &models.Barber{
		BarbershopID:  shopID,
		UserID:        user.ID,
		DisplayName:   name,
		Specialties:   datatypes.JSONSlice[string]{"corte"},
		AverageRating: rating,
		Active:        true,
	}
	require.NoError(t, gdb.Create(barber).Error)
	return barber
}

// SetBarberActive existe porque Create ignora false (default:true).
func SetBarberActive(t testing.TB, gdb *gorm.DB, barberID uint, active bool) {
	t.Helper()
	require.NoError(t, gdb.Model(&models.Barber{}).Where("id = ?", barberID).Update("active", active).Error)
}

func SeedService(t testing.TB, gdb *gorm.DB, shopID uint, name string, durationMin int) *models.Service {
	t.Helper()

	service := &models.Service{
		BarbershopID: shopID,
		Name:         name,
		DurationMin:  durationMin,
		Price:        50,
		Active:       true,
	}
	require.NoError(t, gdb.Create(service).Error)
	return service
}

func SeedClient(t testing.TB, gdb *gorm.DB, shopID uint, name string) *models.Client {
	t.Helper()

	n := seq.Add(1)
	client := &models.Client{
		BarbershopID: shopID,
		Name:         name,
		Phone:        fmt.Sprintf("1199999%04d", n),
	}
	require.NoError(t, gdb.Create(client).Error)
	return client
}

func SeedBooking(
	t testing.TB,
	gdb *gorm.DB,
	barber *models.Barber,
	service *models.Service,
	client *models.Client,
	start time.Time,
	status string,
) *models.Booking {
	t.Helper()

	b := &models.Booking{
		BarbershopID: barber.BarbershopID,
		BarberID:     barber.ID,
		ClientID:     client.ID,
		ServiceID:    service.ID,
		StartTime:    start.UTC(),
		EndTime:      start.Add(time.Duration(service.DurationMin) * time.Minute).UTC(),
		DurationMin:  service.DurationMin,
		Status:       status,
		Version:      1,
	}
	require.NoError(t, gdb.Omit(clause.Associations).Create(b).Error)
	return b
}

// SeedWorkingHours abre o barbeiro em todos os dias da semana.
func SeedWorkingHours(t testing.TB, gdb *gorm.DB, barberID uint, start, end, lunchStart, lunchEnd string) {
	t.Helper()

	for wd := 0; wd < 7; wd++ {
		require.NoError(t, gdb.Create(&models.WorkingHours{
			BarberID:   barberID,
			Weekday:    wd,
			StartTime:  start,
			EndTime:    end,
			LunchStart: lunchStart,
			LunchEnd:   lunchEnd,
			Active:     true,
		}).Error)
	}
}

func SeedAbsence(
	t testing.TB,
	gdb *gorm.DB,
	barber *models.Barber,
	start time.Time,
	end time.Time,
	state string,
) *models.Absence {
	t.Helper()

	a := &models.Absence{
		BarbershopID:     barber.BarbershopID,
		BarberID:         barber.ID,
		StartDate:        datatypes.Date(start),
		EndDate:          datatypes.Date(end),
		Reason:           "vacation",
		ApprovalState:    state,
		AffectedBookings: datatypes.JSONSlice[models.AffectedBooking]{},
		Resolutions:      datatypes.JSONSlice[models.ResolutionRecord]{},
	}
	require.NoError(t, gdb.Create(a).Error)
	return a
}

// Reload relê o registro direto do banco.
func Reload[T any](t testing.TB, gdb *gorm.DB, id uint) *T {
	t.Helper()

	var v T
	require.NoError(t, gdb.First(&v, id).Error)
	return &v
}
