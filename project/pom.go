package project

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pom is the part of a Maven project model that locates sources and
// compiled dependencies.
type pom struct {
	XMLName              xml.Name              `xml:"project"`
	GroupID              string                `xml:"groupId"`
	ArtifactID           string                `xml:"artifactId"`
	Version              string                `xml:"version"`
	Parent               *parent               `xml:"parent"`
	Modules              []string              `xml:"modules>module"`
	Properties           *properties           `xml:"properties"`
	Dependencies         []Dependency          `xml:"dependencies>dependency"`
	DependencyManagement *dependencyManagement `xml:"dependencyManagement"`
	Build                *build                `xml:"build"`
}

type parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type properties struct {
	Entries map[string]string
}

func (p *properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// Dependency is a declared Maven dependency after property interpolation.
type Dependency struct {
	GroupID    string `xml:"groupId" json:"groupId"`
	ArtifactID string `xml:"artifactId" json:"artifactId"`
	Version    string `xml:"version" json:"version"`
	Type       string `xml:"type" json:"type,omitempty"`
	Classifier string `xml:"classifier" json:"classifier,omitempty"`
	Scope      string `xml:"scope" json:"scope,omitempty"`
	SystemPath string `xml:"systemPath" json:"systemPath,omitempty"`
}

func (d Dependency) String() string {
	return d.GroupID + ":" + d.ArtifactID + ":" + d.Version
}

func (d Dependency) key() string {
	return d.GroupID + ":" + d.ArtifactID
}

type dependencyManagement struct {
	Dependencies []Dependency `xml:"dependencies>dependency"`
}

type build struct {
	SourceDirectory     string `xml:"sourceDirectory"`
	TestSourceDirectory string `xml:"testSourceDirectory"`
	OutputDirectory     string `xml:"outputDirectory"`
}

func readPOM(path string) (*pom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p pom
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

// loadPOM reads the pom.xml in dir and merges in its parent when the parent
// is found on disk. Remote parents are not fetched.
func loadPOM(dir string) (*pom, error) {
	p, err := readPOM(filepath.Join(dir, "pom.xml"))
	if err != nil {
		return nil, err
	}
	if p.Parent != nil {
		rel := p.Parent.RelativePath
		if rel == "" {
			rel = ".."
		}
		parentPath := filepath.Join(dir, rel)
		if filepath.Ext(parentPath) != ".xml" {
			parentPath = filepath.Join(parentPath, "pom.xml")
		}
		if pp, err := readPOM(parentPath); err == nil && pp.ArtifactID == p.Parent.ArtifactID {
			p.inherit(pp)
		} else {
			log.Debugf("parent %s:%s of %s not on disk", p.Parent.GroupID, p.Parent.ArtifactID, dir)
		}
		if p.GroupID == "" {
			p.GroupID = p.Parent.GroupID
		}
		if p.Version == "" {
			p.Version = p.Parent.Version
		}
	}
	p.interpolate()
	return p, nil
}

func (p *pom) inherit(parent *pom) {
	if p.Properties == nil {
		p.Properties = &properties{Entries: make(map[string]string)}
	}
	if parent.Properties != nil {
		for k, v := range parent.Properties.Entries {
			if _, ok := p.Properties.Entries[k]; !ok {
				p.Properties.Entries[k] = v
			}
		}
	}
	if parent.DependencyManagement == nil {
		return
	}
	if p.DependencyManagement == nil {
		p.DependencyManagement = &dependencyManagement{}
	}
	have := make(map[string]bool)
	for _, d := range p.DependencyManagement.Dependencies {
		have[d.key()] = true
	}
	for _, d := range parent.DependencyManagement.Dependencies {
		if !have[d.key()] {
			p.DependencyManagement.Dependencies = append(p.DependencyManagement.Dependencies, d)
		}
	}
}

func (p *pom) interpolate() {
	props := map[string]string{
		"project.groupId":    p.GroupID,
		"project.artifactId": p.ArtifactID,
		"project.version":    p.Version,
	}
	if p.Properties != nil {
		for k, v := range p.Properties.Entries {
			props[k] = v
		}
	}
	expand := func(s string) string {
		return os.Expand(s, func(key string) string {
			if v, ok := props[key]; ok {
				return v
			}
			return "${" + key + "}"
		})
	}
	fix := func(deps []Dependency) {
		for i := range deps {
			deps[i].GroupID = expand(deps[i].GroupID)
			deps[i].ArtifactID = expand(deps[i].ArtifactID)
			deps[i].Version = expand(deps[i].Version)
			deps[i].SystemPath = expand(deps[i].SystemPath)
		}
	}
	fix(p.Dependencies)
	if p.DependencyManagement != nil {
		fix(p.DependencyManagement.Dependencies)
	}
}

// dependencies returns the declared dependencies with versions filled in
// from dependency management.
func (p *pom) dependencies() []Dependency {
	managed := make(map[string]string)
	if p.DependencyManagement != nil {
		for _, d := range p.DependencyManagement.Dependencies {
			managed[d.key()] = d.Version
		}
	}
	out := make([]Dependency, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		if d.Version == "" {
			d.Version = managed[d.key()]
		}
		out = append(out, d)
	}
	return out
}

// jarPath is where a dependency sits in a local Maven repository.
func jarPath(repo string, d Dependency) string {
	name := d.ArtifactID + "-" + d.Version
	if d.Classifier != "" {
		name += "-" + d.Classifier
	}
	return filepath.Join(repo, filepath.FromSlash(strings.ReplaceAll(d.GroupID, ".", "/")), d.ArtifactID, d.Version, name+".jar")
}
