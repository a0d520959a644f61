package formats

import (
	"testing"

	"github.com/Faultbox/blockyforge/pkg/scene"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name   string
		format ModelFormat
		path   string
		want   ModelFormat
	}{
		{"explicit prop", FormatProp, "/Characters/Hero.blockymodel", FormatProp},
		{"explicit character", FormatCharacter, "/Blocks/Chest.blockymodel", FormatCharacter},
		{"unknown value", "vehicle", "/Blocks/Cart.blockymodel", FormatCharacter},
		{"blocks dir", "", "/Assets/Blocks/Chest/Chest.blockymodel", FormatProp},
		{"windows blocks dir", "", `C:\Assets\Blocks\Chest.blockymodel`, FormatProp},
		{"plain", "", "/Assets/NPC/Kweebec.blockymodel", FormatCharacter},
		{"blocks prefix only", "", "/Assets/Blockset/Chest.blockymodel", FormatCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(&Model{Format: tt.format}, tt.path); got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/Assets/NPC/Kweebec.blockymodel", "Kweebec"},
		{"/Assets/Kweebec/Model.blockymodel", "Kweebec"},
		{"/Assets/Kweebec/Models/Model.blockymodel", "Kweebec"},
		{"/Assets/Kweebec/Attachments/Model.blockymodel", "Kweebec"},
		{`C:\Assets\Chest.v2.blockymodel`, "Chest"},
		{"Model.blockymodel", "Model"},
		{"", "Model"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ProjectName(tt.path); got != tt.want {
				t.Errorf("ProjectName(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"1","name":"lid","position":{"x":0,"y":8,"z":0},
		"orientation":{"x":0,"y":0,"z":0,"w":1},"shape":{"type":"none"}}]}`)

	s := scene.New()
	res, err := Load(s, data, "/Assets/Blocks/Chest/Model.blockymodel", ParseOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Format != FormatProp || res.ProjectName != "Chest" {
		t.Errorf("format %q project %q", res.Format, res.ProjectName)
	}
	if len(res.NewBones) != 1 || s.FindBone("lid") == nil {
		t.Error("lid bone not added")
	}

	if _, err := Load(s, []byte(`{"nodes":[{}]}`), "", ParseOptions{}); err == nil {
		t.Error("malformed model should fail to load")
	}
}
