// GENERATED FILE - DO NOT EDIT.
// Generated by gen_builtins from the built-in catalogue.

package builtins

// TablesVersion is the version of the generated catalogue and hash tables.
const TablesVersion = "1.4.0"

const (
	mangledModulus   = 347
	mangledMaxLen    = 37
	unmangledModulus = 102
	unmangledMaxLen  = 26
)

var mangledT1 = [37]int{
	103, 169, 33, 235, 258, 280, 60, 114, 29, 317, 140, 132, 295, 96, 277, 261,
	26, 123, 65, 328, 57, 39, 302, 114, 311, 109, 281, 257, 33, 50, 249, 1,
	40, 285, 53, 88, 47,
}

var mangledT2 = [37]int{
	321, 299, 22, 291, 17, 173, 281, 59, 151, 50, 290, 30, 41, 236, 266, 117,
	243, 252, 263, 221, 266, 102, 16, 255, 293, 103, 102, 12, 69, 269, 61, 157,
	208, 103, 20, 5, 192,
}

var mangledG = [347]int{
	0, 0, 0, 0, 0, 77, 63, 0, 0, 0, 0, 153, 0, 0, 0, 341,
	0, 0, 0, 0, 0, 229, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 92, 0, 47, 0, 0, 0, 70, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 292, 0, 0, 0, 0, 96, 45, 0, 0, 0,
	0, 18, 247, 0, 0, 73, 0, 0, 0, 99, 13, 0, 0, 130, 0, 0,
	147, 0, 0, 0, 343, 11, 129, 277, 0, 0, 0, 182, 0, 18, 114, 0,
	0, 0, 0, 289, 0, 0, 0, 0, 83, 10, 110, 0, 131, 54, 0, 84,
	0, 0, 0, 20, 0, 0, 47, 1, 98, 313, 0, 0, 0, 0, 322, 152,
	281, 0, 39, 0, 0, 1, 37, 0, 0, 0, 125, 0, 56, 17, 18, 45,
	75, 85, 34, 0, 109, 72, 0, 31, 0, 304, 0, 0, 61, 0, 0, 0,
	96, 114, 0, 0, 0, 21, 0, 256, 305, 248, 135, 0, 0, 0, 0, 71,
	0, 73, 0, 340, 0, 328, 0, 0, 79, 0, 0, 8, 16, 0, 0, 262,
	8, 53, 46, 195, 0, 0, 0, 145, 172, 170, 0, 0, 0, 0, 335, 0,
	77, 345, 129, 32, 327, 0, 29, 0, 276, 106, 0, 0, 322, 0, 93, 0,
	0, 0, 0, 0, 149, 0, 317, 0, 45, 132, 0, 62, 0, 65, 54, 0,
	263, 218, 0, 0, 128, 297, 0, 0, 109, 0, 60, 87, 0, 0, 0, 119,
	0, 0, 303, 291, 318, 0, 0, 192, 0, 0, 332, 100, 0, 110, 27, 155,
	0, 143, 0, 315, 0, 96, 113, 0, 0, 2, 0, 245, 120, 328, 0, 345,
	0, 19, 4, 0, 266, 0, 0, 69, 85, 82, 0, 0, 107, 0, 228, 104,
	318, 0, 284, 0, 0, 25, 136, 0, 0, 78, 0, 0, 321, 120, 0, 0,
	20, 0, 65, 67, 289, 38, 42, 138, 0, 0, 0, 0, 127, 153, 24, 0,
	331, 0, 60, 108, 336, 105, 249, 212, 115, 27, 0,
}

var unmangledT1 = [26]int{
	18, 32, 91, 13, 2, 8, 60, 63, 23, 88, 72, 25, 58, 66, 25, 94,
	99, 17, 54, 83, 50, 15, 51, 54, 28, 1,
}

var unmangledT2 = [26]int{
	35, 76, 39, 3, 27, 24, 51, 78, 83, 74, 13, 6, 19, 28, 57, 34,
	2, 99, 79, 43, 38, 50, 10, 10, 12, 27,
}

var unmangledG = [102]int{
	0, 0, 0, 0, 0, 82, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	0, 30, 0, 98, 0, 0, 95, 0, 13, 0, 0, 0, 0, 0, 0, 22,
	10, 9, 17, 32, 92, 0, 0, 21, 0, 22, 0, 41, 0, 25, 0, 32,
	0, 0, 69, 42, 96, 85, 0, 43, 0, 0, 0, 62, 13, 16, 39, 13,
	0, 0, 21, 0, 33, 0, 0, 0, 1, 26, 96, 15, 27, 0, 0, 0,
	0, 0, 12, 101, 30, 34, 0, 0, 10, 63, 0, 0, 27, 46, 0, 0,
	14, 35, 4, 0, 24, 14,
}

