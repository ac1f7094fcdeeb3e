// Package ingest builds the initial tag pool of a file.
//
// [Reader.FromEXIF] decodes the EXIF block of a JPEG or TIFF file with
// goexif, including Canon and Nikon maker notes, and converts each tag
// through its ValueConv and PrintConv definitions. [Reader.FromDocument]
// reads a pool written out as YAML or JSON, which is how fixtures and
// values from other extractors are fed to the composite resolver.
package ingest
