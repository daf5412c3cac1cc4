package ast

import "fmt"

// BeginFile starts a compilation unit. Its node opens the file scope, the
// root of every scope chain built while the file is parsed.
func (s *Session) BeginFile(path string) NodeID {
	if s.file != NoNode {
		panic(invariantf("beginning file %s while %s is still open", path, s.fileInfo().Path))
	}
	n := &Node{Kind: KindCompilationUnit, typ: NoNode}
	id := s.tree.add(n)
	n.file = id
	n.fileInfo = &FileInfo{Path: path}
	n.scope = NewSymbolTable(ScopeFile, nil)
	n.scope.owner = id
	s.file = id
	s.scope = n.scope
	s.types = s.types[:0]
	s.frames = s.frames[:0]
	s.ctx.states[id] = FileConstructing
	log.Debugf("constructing %s", path)
	return id
}

// EndFile closes the compilation unit and registers it with the context.
// Every scope and type opened inside the file must have been closed.
func (s *Session) EndFile(id NodeID) error {
	if s.file != id {
		panic(invariantf("ending file %d but the open file is %d", id, s.file))
	}
	if len(s.types) > 0 {
		panic(invariantf("ending file with %d open type declarations", len(s.types)))
	}
	if len(s.frames) > 0 {
		panic(invariantf("ending file with %d open scopes", len(s.frames)))
	}
	s.file = NoNode
	s.scope = nil
	if err := s.ctx.RegisterFile(id); err != nil {
		return fmt.Errorf("end file: %w", err)
	}
	return nil
}
