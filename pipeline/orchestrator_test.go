package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i-dot-ai/lex/httpclient"
	"github.com/i-dot-ai/lex/legislation"
)

const ukSample = `<Legislation IdURI="http://www.legislation.gov.uk/id/ukpga/2020/1" NumberOfProvisions="1" RestrictExtent="E+W+S+N.I.">
<dc:title>Test Act 2020</dc:title>
<ukm:EnactmentDate Date="2020-03-04"/>
<Body>
<Part>
<P1group>
<Title>Interpretation</Title>
<P1 id="section-1" IdURI="http://www.legislation.gov.uk/id/ukpga/2020/1/section/1" DocumentURI="http://www.legislation.gov.uk/ukpga/2020/1/section/1">
<Pnumber>1</Pnumber>
<P1para><Text>In this Act, <Emphasis>"authority"</Emphasis> means the relevant authority.</Text></P1para>
</P1>
</P1group>
</Part>
</Body>
</Legislation>`

const noBodySample = `<Legislation IdURI="http://www.legislation.gov.uk/id/ukpga/1800/1"><dc:title>Ancient Act</dc:title></Legislation>`

type stubFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
}

func (f stubFetcher) Get(_ context.Context, url string) ([]byte, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.bodies[url], nil
}

func TestBareLegislationID(t *testing.T) {
	assert.Equal(t, "ukpga/2023/1", bareLegislationID("https://www.legislation.gov.uk/ukpga/2023/1/data.xml"))
	assert.Equal(t, "uksi/2023/9", bareLegislationID("https://www.legislation.gov.uk/uksi/2023/9/data.xml"))
}

func TestDocumentPayload_CarriesIdentifyingFields(t *testing.T) {
	doc := legislation.Document{
		ID: "ukpga/2020/1", Title: "Test Act 2020", Category: legislation.CategoryPrimary,
		Type: legislation.TypeUKPGA, Year: 2020, Number: 1, Status: legislation.StatusInForce,
	}
	payload := documentPayload(doc)
	assert.Equal(t, "ukpga/2020/1", payload["id"])
	assert.Equal(t, "ukpga", payload["type"])
	assert.Equal(t, "document", payload["kind"])
}

func TestSectionPayload_CarriesParentLink(t *testing.T) {
	section := legislation.Section{ID: "ukpga/2020/1/section/1", LegislationID: "ukpga/2020/1", ProvisionType: legislation.ProvisionSection}
	payload := sectionPayload(section)
	assert.Equal(t, "ukpga/2020/1", payload["legislation_id"])
	assert.Equal(t, "section", payload["provision_type"])
	assert.Equal(t, "section", payload["kind"])
}

func TestAmendmentPayload_CarriesChangeManifestFields(t *testing.T) {
	a := legislation.Amendment{
		ID: "key-1-uri", ChangedDocumentID: "ukpga/2019/1", AffectingDocumentID: "uksi/2025/2",
		TypeOfEffect: "amended", AffectingYear: 2025,
	}
	payload := amendmentPayload(a)
	assert.Equal(t, "ukpga/2019/1", payload["changed_document_id"])
	assert.Equal(t, "uksi/2025/2", payload["affecting_document_id"])
	assert.Equal(t, 2025, payload["affecting_year"])
	assert.Equal(t, "amendment", payload["kind"])
}

func TestAmendmentText_MentionsAllParties(t *testing.T) {
	a := legislation.Amendment{ChangedDocumentID: "ukpga/2019/1", AffectingDocumentID: "uksi/2025/2", TypeOfEffect: "amended", AffectingYear: 2025}
	text := amendmentText(a)
	assert.Contains(t, text, "ukpga/2019/1")
	assert.Contains(t, text, "uksi/2025/2")
	assert.Contains(t, text, "amended")
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, 1, cfg.EmbedWorkers)
	assert.Equal(t, DefaultRateLimitThreshold, cfg.RateLimitThreshold)
}

func TestIsRateLimitErr_MatchesRateLimitAndCircuitOpenErrors(t *testing.T) {
	assert.True(t, isRateLimitErr(httpclient.ErrRateLimited))
	assert.True(t, isRateLimitErr(fmt.Errorf("fetch: %w", httpclient.ErrRateLimited)))
	assert.True(t, isRateLimitErr(httpclient.ErrCircuitOpen))
	assert.False(t, isRateLimitErr(errors.New("server error 503")))
	assert.False(t, isRateLimitErr(nil))
}

func TestFetchAndParse_XMLBodySucceeds(t *testing.T) {
	url := "https://www.legislation.gov.uk/ukpga/2020/1/data.xml"
	o := &Orchestrator{fetcher: stubFetcher{bodies: map[string][]byte{url: []byte(ukSample)}}}

	result := o.fetchAndParse(context.Background(), url)
	require.NoError(t, result.err)
	assert.Equal(t, legislation.DocumentID("ukpga/2020/1"), result.document.ID)
	assert.Len(t, result.sections, 1)
}

func TestFetchAndParse_FetchErrorIsRecorded(t *testing.T) {
	url := "https://www.legislation.gov.uk/ukpga/2020/1/data.xml"
	o := &Orchestrator{fetcher: stubFetcher{errs: map[string]error{url: errors.New("server error 503")}}}

	result := o.fetchAndParse(context.Background(), url)
	require.Error(t, result.err)
}

func TestFetchAndParse_NoBodyFallsBackToPDF(t *testing.T) {
	url := "https://www.legislation.gov.uk/ukpga/1800/1/data.xml"
	resourcesURL := "https://www.legislation.gov.uk/ukpga/1800/1/resources"
	o := &Orchestrator{fetcher: stubFetcher{
		bodies: map[string][]byte{url: []byte(noBodySample)},
		errs:   map[string]error{resourcesURL: errors.New("no resources page")},
	}}

	result := o.fetchAndParse(context.Background(), url)
	require.ErrorContains(t, result.err, "pdf fallback: find pdf", "fallback cannot complete without a reachable resources page, but the XML-body error path must not be what's reported")
}

