package bill

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddRemove(t *testing.T) {
	c := NewCart()

	first := c.Add(RawItem{Name: "Haircut", Price: "1000"})
	second := c.Add(RawItem{ID: "deal-1", Name: "Bridal", Price: "5000", Kind: "deal"})
	c.Add(RawItem{Name: "Serum", Price: "750", Kind: "product"})

	require.NotEmpty(t, first)
	assert.Equal(t, "deal-1", second)
	assert.Equal(t, 3, c.Len())

	assert.True(t, c.Remove("deal-1"))
	assert.False(t, c.Remove("deal-1"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "Haircut", items[0].Name)
	assert.Equal(t, "Serum", items[1].Name)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestCart_ItemsIsACopy(t *testing.T) {
	c := NewCart()
	c.Add(RawItem{ID: "x", Name: "Haircut", Price: "1000"})

	items := c.Items()
	items[0].Name = "Changed"

	assert.Equal(t, "Haircut", c.Items()[0].Name)
}

func TestCart_SnapshotSurvivesMutation(t *testing.T) {
	c := NewCart()
	c.Add(RawItem{ID: "x", Name: "Haircut", Price: "1000"})

	b := Build(c.Items(), ClientMeta{}, "", NoTax, testNow)
	c.Add(RawItem{Name: "Color", Price: "500"})
	c.Remove("x")

	require.Len(t, b.Items, 1)
	assert.True(t, d("1000").Equal(ComputeTotals(b).GrandTotal))
}

func TestCart_ConcurrentAdd(t *testing.T) {
	c := NewCart()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(RawItem{Name: "Wax", Price: "10"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
