package defaults

// Width contract shared with the runtime's database structure header.
const (
	NameLength       = 50
	ParametersLength = 16
)

// Default entry vocabulary.
const (
	VendorDefault             = "default"
	DeviceTypeDefault         = "All"
	DeviceNameDefault         = "default"
	DeviceArchitectureDefault = "default"

	// DeviceNameDefaultConstant is as wide as a rendered Name{"..."} field.
	DeviceNameDefaultConstant = "kDeviceNameDefault                                        "
)

// BaselinePrecision is the precision whose default entries stand in for a
// precision without any records.
const BaselinePrecision = "32"

// VendorsWithArchitecture lists vendors for which architecture grouping is meaningful.
var VendorsWithArchitecture = []string{"AMD", "NVIDIA"}

// Generated source layout.
const (
	ProjectName      = "CLBlast"
	GeneratorName    = "cmd/ttgen"
	IncludePrefix    = "database/kernels"
	StructureHeader  = "database/database_structure.hpp"
	TableExtension   = ".hpp"
	SourceExtension  = ".cpp"
	HeaderExtension  = ".hpp"
	FilePermissions  = 0644
	DirPermissions   = 0755
	ChecksumFileName = "checksums.txt"
)

// Namespaces wrap every generated declaration, outermost first.
var Namespaces = []string{"clblast", "database"}

// Parallelism is the default number of families generated concurrently.
const Parallelism = 1
