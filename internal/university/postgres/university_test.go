package postgres_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/university-directory/internal/university"
	universityPostgres "github.com/frahmantamala/university-directory/internal/university/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUniversityPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "University Postgres Suite")
}

// SQLiteUniversity mirrors the universities table without postgres-only defaults
type SQLiteUniversity struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	Type        string `gorm:"column:type;not null"`
	City        string `gorm:"column:city;not null"`
	State       string `gorm:"column:state;not null"`
	Country     string `gorm:"column:country;not null"`
	ZipCode     string `gorm:"column:zip_code"`
	Address     string `gorm:"column:address"`
	Phone       string `gorm:"column:phone"`
	Email       string `gorm:"column:email"`
	Website     string `gorm:"column:website"`
	Undergrad   int64  `gorm:"column:undergraduate_enrollment"`
	Graduate    int64  `gorm:"column:graduate_enrollment"`
	Total       int64  `gorm:"column:total_enrollment"`
	Founded     *int   `gorm:"column:founded"`
	Status      string `gorm:"column:status;not null"`
	Description string `gorm:"column:description"`
	Tags        string `gorm:"column:tags"`

	CreatedBy *int64    `gorm:"column:created_by"`
	UpdatedBy *int64    `gorm:"column:updated_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteUniversity) TableName() string {
	return "universities"
}

var _ = Describe("University PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo *universityPostgres.Repository
	)

	seed := func(name string, uniType university.Type, status university.Status, state string, undergrad, graduate int64) *university.University {
		u := &university.University{
			Name: name,
			Type: uniType,
			Location: university.Location{
				City:    "Riverton",
				State:   state,
				Country: "United States",
			},
			Enrollment: university.Enrollment{
				Undergraduate: undergrad,
				Graduate:      graduate,
				Total:         undergrad + graduate,
			},
			Status:    status,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		Expect(repo.Create(u)).To(Succeed())
		return u
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&SQLiteUniversity{})).To(Succeed())

		repo = universityPostgres.NewRepository(db)
	})

	Describe("Create and GetByID", func() {
		It("persists and reads an entry back", func() {
			created := seed("State University of Riverton", university.TypePublic, university.StatusActive, "CA", 24000, 6000)
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("State University of Riverton"))
			Expect(got.Type).To(Equal(university.TypePublic))
			Expect(got.Enrollment.Total).To(Equal(int64(30000)))
		})

		It("returns ErrNotFound for a missing id", func() {
			_, err := repo.GetByID(4242)
			Expect(err).To(MatchError(university.ErrNotFound))
		})

		It("round-trips tags", func() {
			created := seed("Tagged University", university.TypePublic, university.StatusActive, "WA", 100, 10)
			created.Tags = []string{"research", "land-grant"}
			Expect(repo.Update(created)).To(Succeed())

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Tags).To(Equal([]string{"research", "land-grant"}))
		})
	})

	Describe("ExistsByName", func() {
		It("matches case-insensitively and honours the exclusion", func() {
			created := seed("Hillcrest College", university.TypePrivate, university.StatusActive, "OR", 3000, 500)

			exists, err := repo.ExistsByName("HILLCREST college", 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.ExistsByName("Hillcrest College", created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			seed("Ashford State", university.TypePublic, university.StatusActive, "CA", 20000, 4000)
			seed("Briar Institute", university.TypePrivate, university.StatusActive, "NY", 5000, 2000)
			seed("Cedar Community College", university.TypeCommunity, university.StatusPending, "CA", 8000, 0)
		})

		It("pages and sorts", func() {
			rows, total, err := repo.List(university.ListParams{
				Page: 1, Limit: 2, SortBy: "name", SortOrder: "asc",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Ashford State"))

			rows, _, err = repo.List(university.ListParams{
				Page: 1, Limit: 10, SortBy: "total_enrollment", SortOrder: "desc",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].Name).To(Equal("Ashford State"))
		})

		It("searches name, city, and state", func() {
			rows, total, err := repo.List(university.ListParams{
				Page: 1, Limit: 10, SortBy: "name", SortOrder: "asc", Search: "briar",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(rows[0].Name).To(Equal("Briar Institute"))
		})

		It("filters by type, status, and state", func() {
			_, total, err := repo.List(university.ListParams{
				Page: 1, Limit: 10, SortBy: "name", SortOrder: "asc", Type: "community",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))

			_, total, err = repo.List(university.ListParams{
				Page: 1, Limit: 10, SortBy: "name", SortOrder: "asc", Status: "active", State: "ca",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})
	})

	Describe("Update", func() {
		It("writes the changed fields", func() {
			created := seed("Dover Tech", university.TypePrivate, university.StatusPending, "DE", 1000, 200)

			created.Status = university.StatusActive
			created.Enrollment = university.Enrollment{Undergraduate: 1500, Graduate: 300, Total: 1800}
			created.UpdatedAt = time.Now()
			Expect(repo.Update(created)).To(Succeed())

			got, err := repo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(university.StatusActive))
			Expect(got.Enrollment.Total).To(Equal(int64(1800)))
		})

		It("reports a missing row", func() {
			Expect(repo.Update(&university.University{ID: 999, Name: "Ghost U"})).
				To(MatchError(university.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes the row", func() {
			created := seed("Ephemeral University", university.TypePublic, university.StatusClosed, "TX", 0, 0)
			Expect(repo.Delete(created.ID)).To(Succeed())

			_, err := repo.GetByID(created.ID)
			Expect(err).To(MatchError(university.ErrNotFound))
		})

		It("reports a missing row", func() {
			Expect(repo.Delete(999)).To(MatchError(university.ErrNotFound))
		})
	})

	Describe("Stats", func() {
		It("aggregates buckets and enrollment figures", func() {
			seed("Ashford State", university.TypePublic, university.StatusActive, "CA", 20000, 4000)
			seed("Briar Institute", university.TypePrivate, university.StatusActive, "NY", 5000, 2000)
			seed("Cedar Community College", university.TypeCommunity, university.StatusPending, "CA", 8000, 0)

			stats, err := repo.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.ByStatus["active"]).To(Equal(int64(2)))
			Expect(stats.ByStatus["pending"]).To(Equal(int64(1)))
			Expect(stats.ByType["public"]).To(Equal(int64(1)))
			Expect(stats.TotalEnrollment).To(Equal(int64(39000)))
			Expect(stats.AvgEnrollment).To(Equal(int64(13000)))
		})

		It("returns zeroes on an empty directory", func() {
			stats, err := repo.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(BeZero())
			Expect(stats.TotalEnrollment).To(BeZero())
			Expect(stats.AvgEnrollment).To(BeZero())
		})
	})

	Describe("CountUpdatedSince", func() {
		It("counts entries changed inside the window", func() {
			stale := seed("Old Hall", university.TypePrivate, university.StatusActive, "MA", 100, 10)
			seed("New Hall", university.TypePrivate, university.StatusActive, "MA", 100, 10)

			past := time.Now().Add(-14 * 24 * time.Hour)
			Expect(db.Model(&SQLiteUniversity{}).Where("id = ?", stale.ID).
				Update("updated_at", past).Error).To(Succeed())

			count, err := repo.CountUpdatedSince(time.Now().Add(-7 * 24 * time.Hour))
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})
})
