package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainmap/domainmap/pkg/parse"
)

func mustParse(t *testing.T, input string) []parse.Tuple {
	t.Helper()
	tuples, err := parse.Reader(strings.NewReader(input))
	require.NoError(t, err)
	return tuples
}

const threeDomainScan = `example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
www.example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
mail.example.com (FQDN) --> mx_record --> 93.184.216.34 (IPAddress)
`

func TestBuild_ThreeDomainScenarioCounters(t *testing.T) {
	res, err := Build(mustParse(t, threeDomainScan), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	assert.Equal(t, "example.com", res.Root)
	assert.Equal(t, 3, res.Summary.Domains)
	assert.Equal(t, 1, res.Summary.UniqueIPs)
	assert.Equal(t, 2, res.Summary.Subdomains)
	assert.Equal(t, 0, res.Summary.ExternalDomains)
	assert.Equal(t, 3, res.Summary.Relations)
}

func TestBuild_NormalizesIdentifiers(t *testing.T) {
	input := "WWW.Example.COM. (FQDN) --> cname_record --> Example.COM (FQDN)\n"
	res, err := Build(mustParse(t, input), BuildOptions{})
	require.NoError(t, err)

	_, ok := res.Node("www.example.com")
	assert.True(t, ok, "identifiers are lowercased with trailing dots stripped")
	_, ok = res.Node("WWW.Example.COM.")
	assert.False(t, ok)
}

func TestBuild_DeduplicatesIdenticalEdges(t *testing.T) {
	line := "example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)\n"
	res, err := Build(mustParse(t, line+line+line), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	assert.Len(t, res.Edges, 1)
	assert.Equal(t, 1, res.Summary.Relations)
}

func TestBuild_SameEndpointsDifferentKindsKeepsBothEdges(t *testing.T) {
	input := `mail.example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
mail.example.com (FQDN) --> mx_record --> 93.184.216.34 (IPAddress)
`
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)
	assert.Len(t, res.Edges, 2)
}

func TestBuild_RootInferenceShortestNonWWW(t *testing.T) {
	input := `example.com (FQDN) --> node --> www.example.com (FQDN)
example.com (FQDN) --> node --> mail.example.com (FQDN)
www.example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
`
	res, err := Build(mustParse(t, input), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "example.com", res.Root)
}

func TestBuild_RootInferencePrefersNodeWithoutIncomingParentEdge(t *testing.T) {
	// "cdn.io" is shorter but is parented from within the set.
	input := `example.com (FQDN) --> node --> cdn.io (FQDN)
example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
`
	res, err := Build(mustParse(t, input), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, "example.com", res.Root)
}

func TestBuild_RootInferenceIsIdempotent(t *testing.T) {
	tuples := mustParse(t, threeDomainScan)
	first, err := Build(tuples, BuildOptions{})
	require.NoError(t, err)
	second, err := Build(mustParse(t, threeDomainScan), BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Root, second.Root, "same file must infer the same root")
}

func TestBuild_ExplicitRootOverridesInference(t *testing.T) {
	res, err := Build(mustParse(t, threeDomainScan), BuildOptions{Root: "Example.COM."})
	require.NoError(t, err)
	assert.Equal(t, "example.com", res.Root, "explicit root is normalized too")
}

func TestBuild_ExternalDomainCounting(t *testing.T) {
	input := `example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
cdn.thirdparty.net (FQDN) --> a_record --> 104.18.0.1 (IPAddress)
`
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.ExternalDomains)
	assert.True(t, res.IsExternal("cdn.thirdparty.net"))
	assert.False(t, res.IsExternal("example.com"))
}

func TestBuild_MalformedIPTokenBecomesDomainNode(t *testing.T) {
	input := "host.example.com (FQDN) --> a_record --> 300.1.2.3 (IPAddress)\n"
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	n, ok := res.Node("300.1.2.3")
	require.True(t, ok)
	assert.Equal(t, NodeDomain, n.Kind, "unparseable addresses are opaque domain strings")
}

func TestBuild_OrganizationNodes(t *testing.T) {
	input := `example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
93.184.216.34 (IPAddress) --> managed_by --> EDGECAST (RIROrganization)
`
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	n, ok := res.Node("edgecast")
	require.True(t, ok)
	assert.Equal(t, NodeOrg, n.Kind)
	assert.Equal(t, 1, res.Summary.Organizations)
	assert.Equal(t, 2, res.Summary.Relations)
	assert.Equal(t, []Edge{{Source: "93.184.216.34", Kind: RelationManagedBy, Target: "edgecast"}},
		res.EdgesFrom("93.184.216.34"))
}

func TestBuild_DroppedRelationsRegisterNoNodes(t *testing.T) {
	input := `example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
example.com (FQDN) --> ptr_record --> 93.184.216.35 (IPAddress)
example.com (FQDN) --> ptr_record --> 93.184.216.36 (IPAddress)
`
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	_, ok := res.Node("93.184.216.35")
	assert.False(t, ok, "endpoints of dropped relations stay out of the graph")
	assert.Equal(t, 1, res.Summary.UniqueIPs)
	assert.Equal(t, 1, res.Summary.Relations)
	assert.LessOrEqual(t, res.Summary.UniqueIPs, res.Summary.Relations,
		"unique-IP count must not exceed total edges")
	assert.NoError(t, res.Validate())
}

func TestScanResult_ValidateRejectsOrphanAddressCounters(t *testing.T) {
	res := &ScanResult{
		Root: "example.com",
		Nodes: []Node{
			{ID: "example.com", Kind: NodeDomain},
			{ID: "93.184.216.34", Kind: NodeIP},
		},
	}
	res.Summary.UniqueIPs = 1
	assert.Error(t, res.Validate(), "address nodes without a single edge are inconsistent")
}

func TestBuild_BareTuplesInferResolutionKind(t *testing.T) {
	input := `mail.example.com --> 93.184.216.34
v6.example.com --> 2001:db8::1
alias.example.com --> target.example.com
`
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	kinds := map[string]RelationKind{}
	for _, e := range res.Edges {
		kinds[e.Source] = e.Kind
	}
	assert.Equal(t, RelationResolvesIPv4, kinds["mail.example.com"])
	assert.Equal(t, RelationResolvesIPv6, kinds["v6.example.com"])
	assert.Equal(t, RelationAlias, kinds["alias.example.com"])
}

func TestBuild_OnlyIPNodesFailsWithEmptyGraph(t *testing.T) {
	input := "93.184.216.34 --> 93.184.216.35\n"
	_, err := Build(mustParse(t, input), BuildOptions{})
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestScanResult_DomainNamesRootFirstThenAlphabetical(t *testing.T) {
	res, err := Build(mustParse(t, threeDomainScan), BuildOptions{Root: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "mail.example.com", "www.example.com"}, res.DomainNames())
}

func TestScanResult_IPsOfCollectsBothFamilies(t *testing.T) {
	input := `host.example.com (FQDN) --> a_record --> 93.184.216.34 (IPAddress)
host.example.com (FQDN) --> aaaa_record --> 2001:db8::1 (IPAddress)
`
	res, err := Build(mustParse(t, input), BuildOptions{Root: "example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"93.184.216.34", "2001:db8::1"}, res.IPsOf("host.example.com"))
}

func TestScanResult_SummaryConsistency(t *testing.T) {
	res, err := Build(mustParse(t, threeDomainScan), BuildOptions{Root: "example.com"})
	require.NoError(t, err)

	assert.LessOrEqual(t, res.Summary.UniqueIPs, res.Summary.Relations)
	assert.Equal(t, res.Summary.Domains, 1+res.Summary.Subdomains+res.Summary.ExternalDomains)
	assert.NoError(t, res.Validate())
}

func TestScanResult_ValidateRejectsDanglingEdges(t *testing.T) {
	res := &ScanResult{
		Root:  "example.com",
		Nodes: []Node{{ID: "example.com", Kind: NodeDomain}},
		Edges: []Edge{{Source: "example.com", Kind: RelationResolvesIPv4, Target: "93.184.216.34"}},
	}
	res.Summary.Relations = 1
	assert.Error(t, res.Validate())
}
