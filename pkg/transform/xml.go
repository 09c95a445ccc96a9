package transform

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/agentpkg/pkgsync/pkg/filesync"
	"github.com/beevik/etree"
)

func init() {
	mustRegister(".transform", NewXMLTransformer(map[string]NodeAction{
		// configSections must be the first child of <configuration>
		"configSections": func(parent, child *etree.Element) {
			parent.InsertChildAt(0, child)
		},
	}))
}

// NodeAction places a fragment element that has no counterpart in the target
// document. The default is to append it to parent.
type NodeAction func(parent, child *etree.Element)

// XMLTransformer merges an XML fragment into the target document.
//
// Elements are matched by tag and, among same-tag siblings, by the number of
// attributes with equal names and values. A matched element whose shared
// attributes disagree is treated as a different element. Missing attributes
// are added to matched elements; values already in the document win.
type XMLTransformer struct {
	nodeActions map[string]NodeAction
}

var _ filesync.Transformer = &XMLTransformer{}

func NewXMLTransformer(nodeActions map[string]NodeAction) *XMLTransformer {
	return &XMLTransformer{nodeActions: nodeActions}
}

func (x *XMLTransformer) TransformFile(file filesync.File, targetPath string, project filesync.Project) error {
	fragment, err := readXML(file)
	if err != nil {
		return err
	}

	doc, _, err := loadOrCreateDocument(project, targetPath, fragment.FullTag())
	if err != nil {
		return err
	}

	x.merge(doc.Root(), fragment)

	return writeDocument(project, targetPath, doc)
}

// RevertFile removes from the target document what file added, keeping
// whatever matchingFiles from other packages also provide.
func (x *XMLTransformer) RevertFile(file filesync.File, targetPath string, matchingFiles []filesync.File, project filesync.Project) error {
	fragment, err := readXML(file)
	if err != nil {
		return err
	}

	kept := etree.NewElement(fragment.FullTag())
	for _, f := range matchingFiles {
		other, err := readXML(f)
		if err != nil {
			return err
		}
		x.merge(kept, other)
	}

	doc, exists, err := loadOrCreateDocument(project, targetPath, fragment.FullTag())
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	except(doc.Root(), except(fragment, kept))

	return writeDocument(project, targetPath, doc)
}

func (x *XMLTransformer) merge(source, target *etree.Element) *etree.Element {
	for _, attr := range target.Attr {
		if source.SelectAttr(attr.FullKey()) == nil {
			source.CreateAttr(attr.FullKey(), attr.Value)
		}
	}

	for _, targetChild := range target.ChildElements() {
		sourceChild := findElement(source, targetChild)
		if sourceChild != nil && !hasConflict(sourceChild, targetChild) {
			x.merge(sourceChild, targetChild)
			continue
		}

		child := targetChild.Copy()
		if action, ok := x.nodeActions[targetChild.FullTag()]; ok {
			action(source, child)
		} else {
			source.AddChild(child)
		}
	}

	return source
}

// except removes from source every attribute and element that target also
// has, dropping elements left without attributes or children. Matched
// elements are removed from target as well.
func except(source, target *etree.Element) *etree.Element {
	if target == nil {
		return source
	}

	for _, attr := range slices.Clone(source.Attr) {
		if t := target.SelectAttr(attr.FullKey()); t != nil && t.Value == attr.Value {
			source.RemoveAttr(attr.FullKey())
		}
	}

	for _, sourceChild := range source.ChildElements() {
		targetChild := findElement(target, sourceChild)
		if targetChild == nil || hasConflict(targetChild, sourceChild) {
			continue
		}

		except(sourceChild, targetChild)
		if len(sourceChild.Attr) == 0 && len(sourceChild.ChildElements()) == 0 {
			source.RemoveChild(sourceChild)
			target.RemoveChild(targetChild)
		}
	}

	return source
}

// findElement returns the child of parent with the same tag as el that shares
// the most attribute values with it, then the most attribute names.
func findElement(parent, el *etree.Element) *etree.Element {
	candidates := parent.SelectElements(el.FullTag())
	if len(candidates) == 0 {
		return nil
	}

	slices.SortStableFunc(candidates, func(a, b *etree.Element) int {
		if d := countMatches(b, el, true) - countMatches(a, el, true); d != 0 {
			return d
		}
		return countMatches(b, el, false) - countMatches(a, el, false)
	})
	return candidates[0]
}

func countMatches(a, b *etree.Element, values bool) int {
	n := 0
	for _, attr := range a.Attr {
		other := b.SelectAttr(attr.FullKey())
		if other != nil && (!values || other.Value == attr.Value) {
			n++
		}
	}
	return n
}

// hasConflict reports whether an attribute present on both elements has
// different values.
func hasConflict(source, target *etree.Element) bool {
	for _, attr := range target.Attr {
		if s := source.SelectAttr(attr.FullKey()); s != nil && s.Value != attr.Value {
			return true
		}
	}
	return false
}

func readXML(f filesync.File) (*etree.Element, error) {
	data, err := readFile(f)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.EffectivePath(), err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parsing %s: no root element", f.EffectivePath())
	}
	return doc.Root(), nil
}

func loadOrCreateDocument(project filesync.Project, path, rootTag string) (*etree.Document, bool, error) {
	doc := etree.NewDocument()

	data, ok, err := readTarget(project, path)
	if err != nil {
		return nil, false, err
	}
	if ok {
		if err := doc.ReadFromBytes(data); err != nil {
			return nil, false, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if doc.Root() == nil {
		doc.SetRoot(etree.NewElement(rootTag))
	}
	return doc, ok, nil
}

func writeDocument(project filesync.Project, path string, doc *etree.Document) error {
	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serializing %s: %w", path, err)
	}
	return project.AddFile(path, bytes.NewReader(data))
}
