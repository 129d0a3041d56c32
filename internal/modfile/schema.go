package modfile

// Version is the current file format version.
const Version = "1"

// ModuleFile is the YAML form of a module fragment.
type ModuleFile struct {
	Version string     `yaml:"version,omitempty"`
	Module  string     `yaml:"module"`
	Files   []FileSpec `yaml:"files"`
}

// FileSpec is one source file of a module.
type FileSpec struct {
	Path      string     `yaml:"path"`
	Package   string     `yaml:"package,omitempty"`
	JvmName   string     `yaml:"jvmName,omitempty"`
	Multifile bool       `yaml:"multifile,omitempty"`
	Decls     []DeclSpec `yaml:"declarations"`
}

// DeclSpec is a frontend declaration. Members nest inside their class.
type DeclSpec struct {
	Kind       string      `yaml:"kind"`
	Name       string      `yaml:"name"`
	Descriptor string      `yaml:"descriptor,omitempty"`
	Params     []ParamSpec `yaml:"params,omitempty"`
	Returns    string      `yaml:"returns,omitempty"`
	Supertypes []string    `yaml:"supertypes,omitempty"`
	Body       []string    `yaml:"body,omitempty"`
	References []string    `yaml:"references,omitempty"`
	Members    []DeclSpec  `yaml:"members,omitempty"`
}

// ParamSpec is a callable parameter.
type ParamSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LibraryFile is the YAML form of a dependency library.
type LibraryFile struct {
	Version string       `yaml:"version,omitempty"`
	Name    string       `yaml:"name"`
	Exports []ExportSpec `yaml:"exports"`
}

// ExportSpec is one signature a library can supply.
type ExportSpec struct {
	Symbol     string      `yaml:"symbol"`
	Kind       string      `yaml:"kind"`
	Params     []ParamSpec `yaml:"params,omitempty"`
	Returns    string      `yaml:"returns,omitempty"`
	Supertypes []string    `yaml:"supertypes,omitempty"`
}

// Linkage is the exported state of a linked declaration table.
type Linkage struct {
	Version      string        `yaml:"version"`
	Declarations []LinkedDecl  `yaml:"declarations"`
	Stubs        []string      `yaml:"stubs,omitempty"`
	Facades      []LinkedGroup `yaml:"facades,omitempty"`
}

// LinkedDecl is one declaration in a Linkage.
type LinkedDecl struct {
	ID       uint32 `yaml:"id"`
	Symbol   string `yaml:"symbol"`
	Kind     string `yaml:"kind"`
	Origin   string `yaml:"origin"`
	State    string `yaml:"state"`
	Owner    string `yaml:"owner,omitempty"`
	Source   string `yaml:"source,omitempty"`
	Provider string `yaml:"provider,omitempty"`
}

// LinkedGroup lists the members of one facade.
type LinkedGroup struct {
	Key       string   `yaml:"key"`
	ID        string   `yaml:"id"`
	Multifile bool     `yaml:"multifile,omitempty"`
	Members   []string `yaml:"members"`
}
