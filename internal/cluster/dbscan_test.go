package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gregorizeidler/urbansight/internal/model"
)

// metersPerDegree at the equator for a 6371 km sphere.
const metersPerDegree = 111194.9266

func poiAt(name string, cat model.Category, northM, eastM float64) model.POI {
	return model.POI{
		Name:     name,
		Category: cat,
		Lat:      northM / metersPerDegree,
		Lon:      eastM / metersPerDegree,
	}
}

func memberNames(c model.Cluster) []string {
	names := make([]string, len(c.POIs))
	for i, p := range c.POIs {
		names[i] = p.Name
	}
	return names
}

func TestCluster_EmptyInput(t *testing.T) {
	t.Parallel()

	clusters, noise := Cluster(nil, 100, 3)
	assert.Empty(t, clusters)
	assert.Empty(t, noise)
}

func TestCluster_FewerThanMinPtsIsAllNoise(t *testing.T) {
	t.Parallel()

	pois := []model.POI{
		poiAt("a", model.CategoryFood, 0, 0),
		poiAt("b", model.CategoryFood, 0, 1),
	}
	clusters, noise := Cluster(pois, 100, 3)
	assert.Empty(t, clusters)
	require.Len(t, noise, 2)
	assert.Equal(t, "a", noise[0].Name)
	assert.Equal(t, "b", noise[1].Name)
}

func TestCluster_SingleDenseGroup(t *testing.T) {
	t.Parallel()

	pois := []model.POI{
		poiAt("a", model.CategoryFood, 0, 0),
		poiAt("b", model.CategoryFood, 30, 0),
		poiAt("c", model.CategoryShopping, 30, 30),
		poiAt("d", model.CategoryShopping, 0, 30),
	}
	clusters, noise := Cluster(pois, 100, 3)

	require.Len(t, clusters, 1)
	assert.Empty(t, noise)
	assert.Equal(t, 1, clusters[0].ID)
	assert.Len(t, clusters[0].POIs, 4)
	assert.Equal(t, 2, clusters[0].Categories)
	// Centroid is the member mean, 15 m north and east of the origin.
	assert.InDelta(t, 15/metersPerDegree, clusters[0].Centroid.Lat, 1e-9)
	assert.InDelta(t, 15/metersPerDegree, clusters[0].Centroid.Lon, 1e-9)
}

func TestCluster_TwoGroupsAndNoise(t *testing.T) {
	t.Parallel()

	pois := []model.POI{
		poiAt("a1", model.CategoryFood, 0, 0),
		poiAt("a2", model.CategoryFood, 0, 40),
		poiAt("a3", model.CategoryFood, 40, 0),
		poiAt("b1", model.CategoryShopping, 0, 5000),
		poiAt("b2", model.CategoryShopping, 0, 5040),
		poiAt("b3", model.CategoryShopping, 40, 5000),
		poiAt("loner", model.CategoryTransport, 0, 2500),
	}
	clusters, noise := Cluster(pois, 100, 3)

	require.Len(t, clusters, 2)
	assert.Equal(t, 1, clusters[0].ID)
	assert.Equal(t, 2, clusters[1].ID)
	assert.ElementsMatch(t, []string{"a1", "a2", "a3"}, memberNames(clusters[0]))
	assert.ElementsMatch(t, []string{"b1", "b2", "b3"}, memberNames(clusters[1]))
	require.Len(t, noise, 1)
	assert.Equal(t, "loner", noise[0].Name)
}

func TestCluster_BorderPointJoins(t *testing.T) {
	t.Parallel()

	// The point at 160 m has only one neighbor besides itself, but the
	// core point at 100 m reaches it.
	pois := []model.POI{
		poiAt("a", model.CategoryFood, 0, 0),
		poiAt("b", model.CategoryFood, 0, 50),
		poiAt("c", model.CategoryFood, 0, 100),
		poiAt("d", model.CategoryFood, 0, 160),
	}
	clusters, noise := Cluster(pois, 100, 3)

	require.Len(t, clusters, 1)
	assert.Empty(t, noise)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, memberNames(clusters[0]))
}

func TestCluster_EarlyNoiseReclaimedAsBorder(t *testing.T) {
	t.Parallel()

	// "edge" is visited first, fails the core test and is marked noise,
	// then the cluster grown from the remaining points claims it.
	pois := []model.POI{
		poiAt("edge", model.CategoryFood, 0, 160),
		poiAt("a", model.CategoryFood, 0, 0),
		poiAt("b", model.CategoryFood, 0, 50),
		poiAt("c", model.CategoryFood, 0, 100),
	}
	clusters, noise := Cluster(pois, 100, 3)

	require.Len(t, clusters, 1)
	assert.Empty(t, noise)
	assert.ElementsMatch(t, []string{"edge", "a", "b", "c"}, memberNames(clusters[0]))
}

func TestCluster_IsolatedPointStaysNoise(t *testing.T) {
	t.Parallel()

	pois := []model.POI{
		poiAt("a", model.CategoryFood, 0, 0),
		poiAt("b", model.CategoryFood, 0, 50),
		poiAt("c", model.CategoryFood, 0, 100),
		poiAt("far", model.CategoryFood, 0, 300),
	}
	clusters, noise := Cluster(pois, 100, 3)

	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].POIs, 3)
	require.Len(t, noise, 1)
	assert.Equal(t, "far", noise[0].Name)
}

func TestCluster_PartitionsInput(t *testing.T) {
	t.Parallel()

	pois := []model.POI{
		poiAt("a1", model.CategoryFood, 0, 0),
		poiAt("a2", model.CategoryShopping, 20, 20),
		poiAt("a3", model.CategoryFood, 40, 0),
		poiAt("a4", model.CategoryLeisure, 0, 40),
		poiAt("n1", model.CategoryTransport, 1000, 1000),
		poiAt("b1", model.CategoryServices, 3000, 0),
		poiAt("b2", model.CategoryServices, 3030, 0),
		poiAt("b3", model.CategoryHealthcare, 3060, 0),
		poiAt("n2", model.CategoryOther, 8000, 8000),
	}
	clusters, noise := Cluster(pois, 100, 3)

	var clustered int
	for _, c := range clusters {
		assert.GreaterOrEqual(t, len(c.POIs), 3)
		assert.GreaterOrEqual(t, c.Categories, 1)
		clustered += len(c.POIs)
	}
	assert.Equal(t, len(pois), clustered+len(noise))
	assert.Len(t, noise, 2)
}
