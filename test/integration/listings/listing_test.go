// Package integrationtests exercises the listings service end to end.
// TEST_SERVER_URL must point at a running listings instance and
// TEST_MONGO_URI at its database; the suite skips otherwise.
package integrationtests

import (
	"fmt"
	"net/http"
	"testing"

	"stayindia/pkg/model"
	"stayindia/test/integration/testutil"
)

func TestListings(t *testing.T) {
	env := testutil.NewTestEnv(t)
	mongo, client := env.Setup(t)
	defer env.Cleanup(t, mongo)

	s := &suite{client: client}

	t.Run("CreateAndGet", s.testCreateAndGet)
	t.Run("CreateSanitizesInput", s.testCreateSanitizesInput)
	t.Run("ValidationRejected", s.testValidationRejected)
	t.Run("Search", s.testSearch)
	t.Run("UpdateOwnerOnly", s.testUpdateOwnerOnly)
	t.Run("DeleteOwnerOnly", s.testDeleteOwnerOnly)
}

type suite struct {
	client *testutil.Client
}

func (s *suite) create(t *testing.T, payload map[string]any, as *testutil.Identity) model.Listing {
	t.Helper()
	resp := s.client.POST(t, "/api/v1/listings", payload, as)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	return decodeListing(t, resp)
}

func decodeListing(t *testing.T, resp *testutil.Response) model.Listing {
	t.Helper()
	var body struct {
		Data model.Listing `json:"data"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		t.Fatalf("failed to decode listing response: %v. Body: %s", err, string(resp.Body))
	}
	return body.Data
}

func (s *suite) testCreateAndGet(t *testing.T) {
	host := testutil.Host()
	created := s.create(t, testutil.NewListingBuilder().Build(), host)

	if created.ID == "" {
		t.Fatal("expected created listing to have an ID")
	}
	if created.OwnerID != host.ID {
		t.Errorf("expected owner %q, got %q", host.ID, created.OwnerID)
	}

	resp := s.client.GET(t, "/api/v1/listings/id/"+created.ID, testutil.Guest())
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	got := decodeListing(t, resp)
	if got.Title != created.Title {
		t.Errorf("expected title %q, got %q", created.Title, got.Title)
	}
}

func (s *suite) testCreateSanitizesInput(t *testing.T) {
	payload := testutil.NewListingBuilder().
		WithTitle("  Hilltop   cottage in Munnar  ").
		WithLocation("  MUNNAR ").
		Build()

	created := s.create(t, payload, testutil.Host())
	if created.Title != "Hilltop cottage in Munnar" {
		t.Errorf("expected normalized title, got %q", created.Title)
	}
	if created.Location != "munnar" {
		t.Errorf("expected lowercased location, got %q", created.Location)
	}
}

func (s *suite) testValidationRejected(t *testing.T) {
	payload := testutil.NewListingBuilder().WithTitle("Hut").Build()

	resp := s.client.POST(t, "/api/v1/listings", payload, testutil.Host())
	testutil.AssertStatusCode(t, resp, http.StatusUnprocessableEntity)
}

func (s *suite) testSearch(t *testing.T) {
	host := testutil.Host()
	s.create(t, testutil.NewListingBuilder().WithLocation("jaipur").WithPrice(3000).Build(), host)
	s.create(t, testutil.NewListingBuilder().WithLocation("jaipur").WithPrice(9000).Build(), host)
	s.create(t, testutil.NewListingBuilder().WithLocation("udaipur").WithPrice(4000).Build(), host)

	resp := s.client.GET(t, "/api/v1/listings?location=jaipur&max_price=5000", testutil.Guest())
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var body struct {
		Data       []model.Listing `json:"data"`
		TotalCount int64           `json:"total_count"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		t.Fatalf("failed to decode search response: %v", err)
	}
	if body.TotalCount != 1 {
		t.Errorf("expected total_count 1, got %d", body.TotalCount)
	}
	for _, l := range body.Data {
		if l.Location != "jaipur" || l.Price > 5000 {
			t.Errorf("listing %s does not match filters: location=%q price=%d", l.ID, l.Location, l.Price)
		}
	}
}

func (s *suite) testUpdateOwnerOnly(t *testing.T) {
	created := s.create(t, testutil.NewListingBuilder().Build(), testutil.Host())
	path := "/api/v1/listings/id/" + created.ID
	patch := map[string]any{"price": 7500}

	resp := s.client.PATCH(t, path, patch, testutil.Guest())
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	resp = s.client.PATCH(t, path, patch, testutil.Host())
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	if got := decodeListing(t, resp); got.Price != 7500 {
		t.Errorf("expected updated price 7500, got %d", got.Price)
	}
}

func (s *suite) testDeleteOwnerOnly(t *testing.T) {
	created := s.create(t, testutil.NewListingBuilder().Build(), testutil.Host())
	path := fmt.Sprintf("/api/v1/listings/id/%s", created.ID)

	resp := s.client.DELETE(t, path, testutil.Guest())
	testutil.AssertStatusCode(t, resp, http.StatusForbidden)

	resp = s.client.DELETE(t, path, testutil.Admin())
	testutil.AssertStatusCode(t, resp, http.StatusNoContent)

	resp = s.client.GET(t, path, testutil.Guest())
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
