package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsset_MainFile(t *testing.T) {
	a := &Asset{
		Files: []File{
			{Name: "thumb.jpg", Role: "thumbnail"},
			{Name: "beach.jpg", Role: RoleMain},
		},
	}
	main := a.MainFile()
	assert.NotNil(t, main)
	assert.Equal(t, "beach.jpg", main.Name)

	empty := &Asset{}
	assert.Nil(t, empty.MainFile())
}

func TestAsset_MainBasename(t *testing.T) {
	a := &Asset{Files: []File{{Name: " Beach_Sunset.JPG ", Role: RoleMain}}}
	assert.Equal(t, "Beach_Sunset", a.MainBasename())

	assert.Equal(t, "", (&Asset{}).MainBasename())
}

func TestAsset_FindMarker(t *testing.T) {
	a := &Asset{
		Markers: []Marker{
			{Name: MarkerSubmit, Subject: "pond5", Data: map[string]string{MarkerDataRemoteID: "42"}},
			{Name: MarkerSubmit, Subject: "dreamstime", Data: map[string]string{MarkerDataRemoteID: "7"}},
		},
	}

	m := a.FindMarker(MarkerSubmit, "dreamstime")
	assert.NotNil(t, m)
	assert.Equal(t, "7", m.Data[MarkerDataRemoteID])

	assert.Nil(t, a.FindMarker(MarkerSubmit, "shutterstock"))
}

func TestAsset_Keywords(t *testing.T) {
	a := &Asset{Metadata: Metadata{Keywords: []string{"a", "b", "c"}}}
	assert.Equal(t, []string{"a", "b"}, a.Keywords(2))
	assert.Equal(t, []string{"a", "b", "c"}, a.Keywords(0))
	assert.Equal(t, []string{"a", "b", "c"}, a.Keywords(50))
}

func TestAsset_IsIllustration(t *testing.T) {
	tests := []struct {
		name     string
		asset    Asset
		expected bool
	}{
		{"illustration type", Asset{Type: TypeIllustration}, true},
		{"plain photo", Asset{Type: TypePhoto}, false},
		{"photo as illustration", Asset{Type: TypePhoto, Metadata: Metadata{AsIllustration: true}}, true},
		{"ai generated photo", Asset{Type: TypePhoto, Metadata: Metadata{AIGenerated: true}}, true},
		{"3d render photo", Asset{Type: TypePhoto, Metadata: Metadata{Render3D: true}}, true},
		{"ai generated video stays video", Asset{Type: TypeVideo, Metadata: Metadata{AIGenerated: true}}, false},
		{"vector", Asset{Type: TypeVector}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.asset.IsIllustration())
		})
	}
}
