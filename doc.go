/*
Package pdxscript parses, mutates, and re-serializes the line-oriented,
brace-delimited key/value dialect used by Clausewitz-style game engine
definition files.

The package offers two workflows.

1. Document Manipulation

Parse builds a document tree rooted at an *ast.Root. The tree is mutated
through container operations and rendered back to source text:

	root, err := pdxscript.Parse([]byte(`name = "Some Nation"`))
	if err != nil {
		// handle error
	}
	for _, ctor := range root.Constructors("name") {
		// inspect or mutate ctor.Value()
	}
	out, err := root.Render()

Comments and original whitespace are consumed during parsing and never
reproduced; rendering is grammatically equivalent, not byte-identical.

The Document type ties a parsed root to a filesystem for loading and saving
whole files:

	doc, err := pdxscript.Open("common/countries/SWE.txt")
	if err != nil {
		// handle error
	}
	doc.Root.DeleteConstructors("color")
	err = doc.Save("common/countries/SWE.txt")

2. Data-Oriented Decoding

For extracting definition data into Go values, Unmarshal maps constructors
onto struct fields (matched by `pdx` tag, else case-insensitive field name)
and maps:

	var nation struct {
		Name    string   `pdx:"name"`
		Color   [3]uint8 `pdx:"color"`
	}
	err := pdxscript.Unmarshal(data, &nation)

Parsing fails fast: malformed or unsupported input aborts with a
parser.ParseError rather than degrading gracefully, and no partial tree is
returned.
*/
package pdxscript
