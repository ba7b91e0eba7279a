package formdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormKeepsAddOrder(t *testing.T) {
	form := NewForm()
	form.AddValue("zeta", "1")
	form.AddFile("zphoto", FileFromBytes("z.jpg", []byte("z")))
	form.AddValue("alpha", "2")
	form.AddFile("aphoto[]", FileFromBytes("a.jpg", []byte("a")))
	form.AddFile("zphoto[]", FileFromBytes("z2.jpg", []byte("z2")))

	groups := form.Files()
	require.Len(t, groups, 2)
	assert.Equal(t, "zphoto", groups[0].Field)
	assert.Len(t, groups[0].Files, 2)
	assert.Equal(t, "aphoto", groups[1].Field)

	fields := form.Fields()
	assert.Equal(t, []string{"zeta", "alpha", "zphoto", "zphoto", "aphoto"}, fieldNames(fields))
}

func TestFormEmpty(t *testing.T) {
	form := NewForm()
	assert.Equal(t, KindMap, form.Input().Kind())
	assert.Empty(t, form.Files())
	assert.Empty(t, form.Fields())
}
