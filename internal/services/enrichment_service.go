package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/justsurfingit/medstaff/internal/models"
	"github.com/tmc/langchaingo/llms"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// maxResearchBatch bounds how many facilities one verify or job-search run
// sends to the researcher.
const maxResearchBatch = 50

type FacilityCandidate struct {
	Name        string `json:"name"`
	NameEn      string `json:"nameEn"`
	Type        string `json:"type"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// FacilityDetails is contact data proposed for one facility. Verified is the
// researcher's own claim and is never trusted to publish a facility.
type FacilityDetails struct {
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Website       string `json:"website"`
	Twitter       string `json:"twitter"`
	Instagram     string `json:"instagram"`
	Snapchat      string `json:"snapchat"`
	Facebook      string `json:"facebook"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
	GoogleMapsURL string `json:"googleMapsUrl"`
	Verified      bool   `json:"verified"`
}

type JobSuggestion struct {
	Title        string `json:"title"`
	Facility     string `json:"facility"`
	City         string `json:"city"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary"`
}

// FacilityResearcher is the untrusted external collaborator that proposes
// facility and job data. Everything it returns lands as pending.
type FacilityResearcher interface {
	DiscoverFacilities(ctx context.Context, city string) ([]FacilityCandidate, error)
	LookupFacility(ctx context.Context, name, city string) (*FacilityDetails, error)
	SuggestJobs(ctx context.Context, facilities []models.Facility) ([]JobSuggestion, error)
}

// LLMResearcher answers research questions with Gemini, throttled by Limiter.
type LLMResearcher struct {
	LLM     *LLMService
	Limiter *rate.Limiter
}

func NewLLMResearcher(llm *LLMService, requestsPerMinute int) *LLMResearcher {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	return &LLMResearcher{
		LLM:     llm,
		Limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

const researcherRole = "أنت مساعد متخصص في البحث عن المنشآت الطبية في السعودية. قدم معلومات دقيقة وموثوقة فقط."

func (r *LLMResearcher) ask(ctx context.Context, system, prompt string, out any) error {
	if r.Limiter != nil {
		if err := r.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	resp, err := r.LLM.generate(ctx, system, prompt, llms.WithJSONMode())
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), out); err != nil {
		return fmt.Errorf("researcher returned invalid JSON: %w", err)
	}
	return nil
}

func (r *LLMResearcher) DiscoverFacilities(ctx context.Context, city string) ([]FacilityCandidate, error) {
	const DiscoverPrompt = `
ابحث عن المنشآت الطبية في مدينة %s بالمملكة العربية السعودية.
أريد قائمة بأهم المستشفيات والمجمعات الطبية والمراكز الصحية والعيادات.

### OUTPUT SCHEMA:
{"facilities": [{"name": "اسم المنشأة بالعربية", "nameEn": "English name", "type": "hospital|complex|center|clinic", "city": "%s", "address": "", "phone": "", "website": "", "description": ""}]}

أعد JSON فقط بدون أي نص إضافي. اترك الحقل فارغاً إذا لم تكن المعلومة مؤكدة.
`
	var out struct {
		Facilities []FacilityCandidate `json:"facilities"`
	}
	if err := r.ask(ctx, researcherRole, fmt.Sprintf(DiscoverPrompt, city, city), &out); err != nil {
		return nil, err
	}
	return out.Facilities, nil
}

func (r *LLMResearcher) LookupFacility(ctx context.Context, name, city string) (*FacilityDetails, error) {
	const LookupPrompt = `
ابحث عن معلومات تفصيلية عن "%s" في مدينة %s بالمملكة العربية السعودية.

### OUTPUT SCHEMA:
{"address": "", "phone": "", "email": "", "website": "", "twitter": "", "instagram": "", "snapchat": "", "facebook": "", "latitude": "", "longitude": "", "googleMapsUrl": "", "verified": false}

أعد JSON فقط. اترك الحقل فارغاً إذا لم تكن المعلومة مؤكدة.
`
	var out FacilityDetails
	if err := r.ask(ctx, researcherRole, fmt.Sprintf(LookupPrompt, name, city), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LLMResearcher) SuggestJobs(ctx context.Context, facilities []models.Facility) ([]JobSuggestion, error) {
	const JobsPrompt = `
ابحث عن وظائف طبية متاحة حالياً في المنشآت التالية بالمملكة العربية السعودية:
%s

أعد قائمة بـ 10 وظائف طبية واقعية. استخدم اسم المنشأة كما هو مكتوب أعلاه.

### OUTPUT SCHEMA:
{"jobs": [{"title": "", "facility": "", "city": "", "description": "", "requirements": "", "salary": ""}]}

أعد JSON فقط.
`
	var list strings.Builder
	for _, f := range facilities {
		fmt.Fprintf(&list, "- %s (%s)\n", f.Name, f.City)
	}

	var out struct {
		Jobs []JobSuggestion `json:"jobs"`
	}
	system := "أنت خبير في سوق العمل الطبي السعودي."
	if err := r.ask(ctx, system, fmt.Sprintf(JobsPrompt, list.String()), &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

type DiscoverResult struct {
	CitiesProcessed int      `json:"cities_processed"`
	FacilitiesAdded int      `json:"facilities_added"`
	Errors          []string `json:"errors"`
}

type VerifyResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	// ClaimedVerified counts facilities the researcher called verified; they
	// still wait for an admin.
	ClaimedVerified int      `json:"claimed_verified"`
	Errors          []string `json:"errors"`
}

type SearchJobsResult struct {
	Suggested int      `json:"suggested"`
	Added     int      `json:"added"`
	Errors    []string `json:"errors"`
}

// EnrichmentService feeds researcher output into the directory as pending
// rows for an admin to confirm.
type EnrichmentService struct {
	DB         *gorm.DB
	Researcher FacilityResearcher
	TTL        time.Duration
	Now        func() time.Time
}

func NewEnrichmentService(db *gorm.DB, researcher FacilityResearcher, ttl time.Duration) *EnrichmentService {
	if ttl <= 0 {
		ttl = DefaultJobTTL
	}
	return &EnrichmentService{DB: db, Researcher: researcher, TTL: ttl, Now: time.Now}
}

func (s *EnrichmentService) ready() error {
	if s.DB == nil {
		return ErrDatabaseUnavailable
	}
	if s.Researcher == nil {
		return ErrAIUnavailable
	}
	return nil
}

// Discover asks for facilities in each city and inserts those whose exact
// name is not yet listed. A failing city is recorded and skipped.
func (s *EnrichmentService) Discover(ctx context.Context, cities []string) (*DiscoverResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	res := &DiscoverResult{Errors: []string{}}
	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		logPrefix := fmt.Sprintf("[Discover %s]", city)

		candidates, err := s.Researcher.DiscoverFacilities(ctx, city)
		if err != nil {
			log.Printf("%s ❌ %v", logPrefix, err)
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", city, err))
			continue
		}
		res.CitiesProcessed++

		added := 0
		for _, c := range candidates {
			ok, err := s.addCandidate(ctx, c, city)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", c.Name, err))
				continue
			}
			if ok {
				added++
			}
		}
		res.FacilitiesAdded += added
		log.Printf("%s ✅ Added %d of %d candidates", logPrefix, added, len(candidates))
	}
	return res, nil
}

func (s *EnrichmentService) addCandidate(ctx context.Context, c FacilityCandidate, city string) (bool, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return false, nil
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Facility{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	typ, err := models.ParseFacilityType(c.Type)
	if err != nil {
		typ = models.FacilityOther
	}
	if c.Type == "" {
		typ = models.FacilityHospital
	}
	if strings.TrimSpace(c.City) != "" {
		city = strings.TrimSpace(c.City)
	}

	f := &models.Facility{
		Name:               name,
		NameEn:             optional(c.NameEn),
		Type:               typ,
		City:               city,
		Address:            optional(c.Address),
		Phone:              optional(c.Phone),
		Website:            optional(c.Website),
		VerificationStatus: models.Pending,
		IsActive:           true,
	}
	if err := s.DB.WithContext(ctx).Create(f).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Verify fills missing contact fields of incomplete facilities. Known values
// are never overwritten and nothing is marked verified: unverified rows move
// to pending, verified rows keep their status.
func (s *EnrichmentService) Verify(ctx context.Context) (*VerifyResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var facilities []models.Facility
	err := s.DB.WithContext(ctx).
		Where("phone IS NULL OR address IS NULL OR website IS NULL OR verification_status IN ?",
			[]models.VerificationStatus{models.Unverified, models.Pending}).
		Order("id").
		Limit(maxResearchBatch).
		Find(&facilities).Error
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{Errors: []string{}}
	for i := range facilities {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		f := &facilities[i]
		res.Processed++

		details, err := s.Researcher.LookupFacility(ctx, f.Name, f.City)
		if err != nil {
			log.Printf("[Verify %d] ❌ %v", f.ID, err)
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		if details == nil {
			continue
		}
		if details.Verified {
			res.ClaimedVerified++
		}

		changes := missingFields(f, details)
		if f.VerificationStatus == models.Unverified {
			changes["verification_status"] = models.Pending
		}
		if len(changes) == 0 {
			continue
		}
		if err := s.DB.WithContext(ctx).Model(f).Updates(changes).Error; err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		res.Updated++
	}
	log.Printf("[Verify] ✅ Processed %d, updated %d", res.Processed, res.Updated)
	return res, nil
}

// missingFields maps columns that are empty on f and provided by d.
func missingFields(f *models.Facility, d *FacilityDetails) map[string]interface{} {
	changes := map[string]interface{}{}
	fill := func(column string, current *string, proposed string) {
		proposed = strings.TrimSpace(proposed)
		if proposed != "" && (current == nil || *current == "") {
			changes[column] = proposed
		}
	}
	fill("address", f.Address, d.Address)
	fill("phone", f.Phone, d.Phone)
	fill("email", f.Email, d.Email)
	fill("website", f.Website, d.Website)
	fill("twitter", f.Twitter, d.Twitter)
	fill("instagram", f.Instagram, d.Instagram)
	fill("snapchat", f.Snapchat, d.Snapchat)
	fill("facebook", f.Facebook, d.Facebook)
	fill("latitude", f.Latitude, d.Latitude)
	fill("longitude", f.Longitude, d.Longitude)
	fill("google_maps_url", f.GoogleMapsURL, d.GoogleMapsURL)
	return changes
}

// SearchJobs asks for openings at listed facilities and stores them inactive
// and pending, so they are neither listed as active nor matched until an
// admin confirms them. Suggestions naming an unknown facility are dropped.
func (s *EnrichmentService) SearchJobs(ctx context.Context) (*SearchJobsResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var facilities []models.Facility
	if err := s.DB.WithContext(ctx).Order("id").Limit(maxResearchBatch).Find(&facilities).Error; err != nil {
		return nil, err
	}
	res := &SearchJobsResult{Errors: []string{}}
	if len(facilities) == 0 {
		return res, nil
	}

	suggestions, err := s.Researcher.SuggestJobs(ctx, facilities)
	if err != nil {
		return nil, err
	}
	res.Suggested = len(suggestions)

	byName := make(map[string]*models.Facility, len(facilities))
	for i := range facilities {
		byName[facilities[i].Name] = &facilities[i]
	}

	now := s.Now().UTC()
	expires := now.Add(s.TTL)
	for _, sg := range suggestions {
		f, ok := byName[strings.TrimSpace(sg.Facility)]
		if !ok || strings.TrimSpace(sg.Title) == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: unknown facility %q", sg.Title, sg.Facility))
			continue
		}
		city := strings.TrimSpace(sg.City)
		if city == "" {
			city = f.City
		}

		job := &models.Job{
			FacilityID:         f.ID,
			Title:              strings.TrimSpace(sg.Title),
			Description:        optional(sg.Description),
			Requirements:       optional(sg.Requirements),
			City:               city,
			JobType:            models.FullTime,
			VerificationStatus: models.Pending,
			IsActive:           false,
			PublishedAt:        now,
			ExpiresAt:          &expires,
		}
		if err := s.DB.WithContext(ctx).Create(job).Error; err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", sg.Title, err))
			continue
		}
		res.Added++
	}
	log.Printf("[SearchJobs] ✅ Suggested %d, added %d as pending", res.Suggested, res.Added)
	return res, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
