/*
Package gizmogen generates Python bindings for the ImGuizmo add-on of the imgui bundle.

It reads the add-on's C++ headers and writes a pybind11 source file plus a matching Python stub (.pyi). The command lives in cmd/gizmogen.

# Architecture pipeline (for developers)

Each element in the pipeline has distinct sub-packages that do a specific part. These are then "glued" together in [autogen.Run].
 1. [config]: Baseline generator options from the embedded 'default.toml', optionally merged with a user file
 2. [amalgamate]: Inline the local includes of a header into a single translation unit
 3. [cppdecl]: Scan the amalgamated header into declarations
 4. [binder]: Translate the declarations into pybind11 and stub code, accumulate them across headers and write both files
*/
package gizmogen
