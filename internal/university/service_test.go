package university

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/frahmantamala/university-directory/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestUniversity(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "University Module Suite")
}

type mockUniversityRepository struct {
	universities map[int64]*University
	nextID       int64
}

func newMockUniversityRepository() *mockUniversityRepository {
	m := &mockUniversityRepository{universities: make(map[int64]*University), nextID: 1}
	founded := 1891
	m.seedEntry(&University{
		Name: "State University of Riverton",
		Type: TypePublic,
		Location: Location{
			City: "Riverton", State: "CA", Country: "United States",
		},
		Enrollment: Enrollment{Undergraduate: 24000, Graduate: 6000, Total: 30000},
		Founded:    &founded,
		Status:     StatusActive,
	})
	return m
}

func (m *mockUniversityRepository) seedEntry(u *University) *University {
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	m.universities[u.ID] = u
	m.nextID++
	return u
}

func (m *mockUniversityRepository) List(params ListParams) ([]*University, int64, error) {
	out := make([]*University, 0, len(m.universities))
	for _, u := range m.universities {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUniversityRepository) GetByID(id int64) (*University, error) {
	if u, ok := m.universities[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (m *mockUniversityRepository) ExistsByName(name string, excludeID int64) (bool, error) {
	for _, u := range m.universities {
		if strings.EqualFold(u.Name, name) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUniversityRepository) Create(u *University) error {
	m.seedEntry(u)
	return nil
}

func (m *mockUniversityRepository) Update(u *University) error {
	if _, ok := m.universities[u.ID]; !ok {
		return ErrNotFound
	}
	copied := *u
	m.universities[u.ID] = &copied
	return nil
}

func (m *mockUniversityRepository) Delete(id int64) error {
	if _, ok := m.universities[id]; !ok {
		return ErrNotFound
	}
	delete(m.universities, id)
	return nil
}

func (m *mockUniversityRepository) Stats() (*Stats, error) {
	stats := &Stats{ByStatus: make(map[string]int64), ByType: make(map[string]int64)}
	for _, u := range m.universities {
		stats.Total++
		stats.ByStatus[string(u.Status)]++
		stats.ByType[string(u.Type)]++
		stats.TotalEnrollment += u.Enrollment.Total
	}
	if stats.Total > 0 {
		stats.AvgEnrollment = stats.TotalEnrollment / stats.Total
	}
	return stats, nil
}

var _ = ginkgo.Describe("UniversityService", func() {
	var (
		service  *Service
		mockRepo *mockUniversityRepository
		actor    *auth.Claims
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUniversityRepository()
		service = NewService(mockRepo, 10, 100)
		actor = &auth.Claims{UserID: 7, Email: "manager@example.com", Role: auth.RoleManager}
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("derives the total enrollment from the parts", func() {
			u, err := service.Create(actor, CreateUniversityDTO{
				Name: "Hillcrest College",
				Type: TypePrivate,
				Location: Location{
					City: "Hillcrest", State: "MA",
				},
				Enrollment: Enrollment{Undergraduate: 3200, Graduate: 800, Total: 999999},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Enrollment.Total).To(gomega.Equal(int64(4000)))
			gomega.Expect(u.CreatedBy).ToNot(gomega.BeNil())
			gomega.Expect(*u.CreatedBy).To(gomega.Equal(actor.UserID))
		})

		ginkgo.It("defaults country and status", func() {
			u, err := service.Create(actor, CreateUniversityDTO{
				Name:     "Lakeside Community College",
				Type:     TypeCommunity,
				Location: Location{City: "Lakeside", State: "TX"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Location.Country).To(gomega.Equal("United States"))
			gomega.Expect(u.Status).To(gomega.Equal(StatusActive))
		})

		ginkgo.It("rejects a duplicate name regardless of case", func() {
			_, err := service.Create(actor, CreateUniversityDTO{
				Name:     "STATE UNIVERSITY OF RIVERTON",
				Type:     TypePublic,
				Location: Location{City: "Riverton", State: "CA"},
			})

			gomega.Expect(errors.Is(err, ErrDuplicateName)).To(gomega.BeTrue())
		})

		ginkgo.It("rejects unknown type and status enums", func() {
			_, err := service.Create(actor, CreateUniversityDTO{
				Name:     "Bad Type U",
				Type:     Type("charter"),
				Location: Location{City: "X", State: "Y"},
			})
			var vErr ValidationError
			gomega.Expect(errors.As(err, &vErr)).To(gomega.BeTrue())

			_, err = service.Create(actor, CreateUniversityDTO{
				Name:     "Bad Status U",
				Type:     TypePublic,
				Location: Location{City: "X", State: "Y"},
				Status:   Status("defunct"),
			})
			gomega.Expect(errors.As(err, &vErr)).To(gomega.BeTrue())
		})

		ginkgo.It("rejects negative enrollment and an implausible founding year", func() {
			_, err := service.Create(actor, CreateUniversityDTO{
				Name:       "Negative U",
				Type:       TypePublic,
				Location:   Location{City: "X", State: "Y"},
				Enrollment: Enrollment{Undergraduate: -5},
			})
			var vErr ValidationError
			gomega.Expect(errors.As(err, &vErr)).To(gomega.BeTrue())

			future := time.Now().Year() + 10
			_, err = service.Create(actor, CreateUniversityDTO{
				Name:     "Future U",
				Type:     TypePublic,
				Location: Location{City: "X", State: "Y"},
				Founded:  &future,
			})
			gomega.Expect(errors.As(err, &vErr)).To(gomega.BeTrue())
		})

		ginkgo.It("accepts tags and rejects an oversized tag list", func() {
			u, err := service.Create(actor, CreateUniversityDTO{
				Name:     "Tagged U",
				Type:     TypePublic,
				Location: Location{City: "X", State: "Y"},
				Tags:     []string{"research", "land-grant"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Tags).To(gomega.Equal([]string{"research", "land-grant"}))

			tooMany := make([]string, 11)
			for i := range tooMany {
				tooMany[i] = "tag"
			}
			_, err = service.Create(actor, CreateUniversityDTO{
				Name:     "Overtagged U",
				Type:     TypePublic,
				Location: Location{City: "X", State: "Y"},
				Tags:     tooMany,
			})
			var vErr ValidationError
			gomega.Expect(errors.As(err, &vErr)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("applies only the provided fields", func() {
			desc := "Flagship public research university."
			u, err := service.Update(actor, 1, UpdateUniversityDTO{Description: &desc})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Description).To(gomega.Equal(desc))
			gomega.Expect(u.Name).To(gomega.Equal("State University of Riverton"))
			gomega.Expect(*u.UpdatedBy).To(gomega.Equal(actor.UserID))
		})

		ginkgo.It("recomputes the enrollment total on update", func() {
			u, err := service.Update(actor, 1, UpdateUniversityDTO{
				Enrollment: &Enrollment{Undergraduate: 25000, Graduate: 7000, Total: 1},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Enrollment.Total).To(gomega.Equal(int64(32000)))
		})

		ginkgo.It("rejects renaming onto an existing entry", func() {
			other := &University{
				Name:     "Hillcrest College",
				Type:     TypePrivate,
				Location: Location{City: "Hillcrest", State: "MA", Country: "United States"},
				Status:   StatusActive,
			}
			mockRepo.seedEntry(other)

			dup := "hillcrest college"
			_, err := service.Update(actor, 1, UpdateUniversityDTO{Name: &dup})
			gomega.Expect(errors.Is(err, ErrDuplicateName)).To(gomega.BeTrue())
		})

		ginkgo.It("reports a missing entry", func() {
			status := StatusClosed
			_, err := service.Update(actor, 9999, UpdateUniversityDTO{Status: &status})
			gomega.Expect(errors.Is(err, ErrNotFound)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes an entry", func() {
			gomega.Expect(service.Delete(1)).To(gomega.Succeed())
			_, err := service.GetByID(1)
			gomega.Expect(errors.Is(err, ErrNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("reports a missing entry", func() {
			err := service.Delete(9999)
			gomega.Expect(errors.Is(err, ErrNotFound)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Stats", func() {
		ginkgo.It("aggregates totals, buckets, and enrollment sums", func() {
			stats, err := service.Stats()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stats.Total).To(gomega.Equal(int64(1)))
			gomega.Expect(stats.ByType["public"]).To(gomega.Equal(int64(1)))
			gomega.Expect(stats.TotalEnrollment).To(gomega.Equal(int64(30000)))
		})
	})
})
