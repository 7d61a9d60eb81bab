package cppgen

import "text/template"

// pluginTmpl renders <plugin>_plugin.cpp. The generated fragments are
// C-compatible; the translation unit wraps them in an anonymous
// namespace and exports the registration entry point with C linkage.
var pluginTmpl = template.Must(template.New("plugin.cpp").Funcs(funcs).Parse(`{{.Header}}

#include <cstdio>
#include <cstdlib>
#include <cstring>
#include <cstdint>

#include <unistd.h>

#include "blizzard_rbus_plugin.h"

namespace {

void send_frame(int sock, uint64_t id, uint8_t status, const uint8_t* data, size_t len) {
   uint8_t head[13];
   uint32_t n = static_cast<uint32_t>(len);
   memcpy(head, &id, sizeof(id));
   head[8] = status;
   memcpy(head + 9, &n, sizeof(n));
   if (write(sock, head, sizeof(head)) < 0) {
      perror("write response header");
      return;
   }
   if (len > 0 && write(sock, data, len) < 0) {
      perror("write response payload");
   }
}

void send_error_response(int sock, uint64_t id, const char* message) {
   send_frame(sock, id, 1, reinterpret_cast<const uint8_t*>(message), strlen(message));
}

void send_success_response(int sock, uint64_t id, Google__Protobuf__Any* result) {
   if (!result) {
      send_frame(sock, id, 0, nullptr, 0);
      return;
   }
   size_t size = google__protobuf__any__get_packed_size(result);
   uint8_t* buf = static_cast<uint8_t*>(malloc(size));
   if (!buf) {
      send_error_response(sock, id, "Malloc failed for response frame");
      return;
   }
   google__protobuf__any__pack(result, buf);
   send_frame(sock, id, 0, buf, size);
   free(buf);
}

/*
 * Schema descriptors, built once from plugin_register().
 */
{{range .Methods}}
Google__Protobuf__Any* build_method_{{.Index}}_param_description() {
{{indent 1 .ParamInitCode}}{{indent 1 .ParamAnyCode}}   return &{{.ParamAnyVar}};
}

Google__Protobuf__Any* build_method_{{.Index}}_result_description() {
{{indent 1 .ResultInitCode}}{{indent 1 .ResultAnyCode}}   return &{{.ResultAnyVar}};
}
{{end}}
Blizzard__Plugin__Description__MethodDescription method_descriptions[{{len .Methods}}];
Blizzard__Plugin__Description__MethodDescription* method_description_ptrs[{{len .Methods}}];
Blizzard__Plugin__Description__PluginDescription plugin_description;

void build_plugin_description() {
{{range .Methods}}   blizzard__plugin__description__method_description__init(&method_descriptions[{{.Index}}]);
   method_descriptions[{{.Index}}].name = const_cast<char*>({{cstr .Name}});
   method_descriptions[{{.Index}}].description = const_cast<char*>({{cstr .Description}});
   method_descriptions[{{.Index}}].parameters = build_method_{{.Index}}_param_description();
   method_descriptions[{{.Index}}].result = build_method_{{.Index}}_result_description();
   method_description_ptrs[{{.Index}}] = &method_descriptions[{{.Index}}];
{{end}}   blizzard__plugin__description__plugin_description__init(&plugin_description);
   plugin_description.name = const_cast<char*>({{cstr .Plugin.Name}});
   plugin_description.version = const_cast<char*>({{cstr .Plugin.Version}});
   plugin_description.description = const_cast<char*>({{cstr .Plugin.Description}});
   plugin_description.n_methods = {{len .Methods}};
   plugin_description.methods = method_description_ptrs;
}

/*
 * Implementation stubs. Replace the bodies with real logic; auto-wired
 * results echo their matching parameter.
 */
{{range .Methods}}
int {{$.Symbol}}_{{.Symbol}}({{implParams .}}) {
{{range .Props}}   (void){{.Name}};
{{end}}{{range .Results}}{{if .AutoFrom}}   *{{.Name}} = {{autoExpr .}};
{{else}}   (void){{.Name}};
{{end}}{{if .Len}}   *{{.Len.Name}} = 0;
{{end}}{{end}}   return 0;
}
{{end}}
/*
 * Socket request handlers.
 */
{{range .Methods}}
void handle_{{.Symbol}}(int sock, uint64_t id, Blizzard__Value__Value* params) {
{{indent 1 .ParamUnpackCode}}{{if .ResultPackCode}}{{$r := index .Results 0}}   {{$r.CType}} result = {{$r.Init}};
{{if $r.AutoFrom}}   result = {{.Symbol}}_param_{{$r.AutoFrom}};
{{end}}{{indent 1 .ResultPackCode}}   send_success_response(sock, id, response_any);
{{else}}   send_success_response(sock, id, nullptr);
{{end}}}
{{end}}
/*
 * rbus method handlers.
 */
{{range .Methods}}
rbusError_t {{$.Symbol}}_{{.Symbol}}_handler(rbusHandle_t handle, char const* methodName, rbusObject_t inParams, rbusObject_t outParams, rbusMethodAsyncHandle_t asyncHandle) {
   (void)handle;
   (void)methodName;
   (void)asyncHandle;
{{range .Props}}   rbusValue_t {{.ValueVar}} = rbusObject_GetValue(inParams, {{cstr .Name}});
   if (!{{.ValueVar}}) {
      return RBUS_ERROR_INVALID_INPUT;
   }
   {{.CType}} {{.Name}} = {{.Expr}};
{{end}}{{range .Results}}   {{.CType}} {{.Name}} = {{.Init}};
{{if .Len}}   int {{.Len.Name}} = 0;
{{end}}{{end}}   int rc = {{$.Symbol}}_{{.Symbol}}({{implArgs .}});
   if (rc != 0) {
      return RBUS_ERROR_BUS_ERROR;
   }
{{range .Results}}{{outSet .}}{{end}}   return RBUS_ERROR_SUCCESS;
}
{{end}}
const rbusDataElement_t {{.Symbol}}_elements[] = {
{{range .Methods}}   {const_cast<char*>("Device.{{camel $.Plugin.Name}}.{{camel .Name}}()"), RBUS_ELEMENT_TYPE_METHOD, {NULL, NULL, NULL, NULL, NULL, {{$.Symbol}}_{{.Symbol}}_handler}},
{{end}}};

} // namespace

extern "C" void {{.Symbol}}_dispatch(int sock, uint64_t id, const char* method, Blizzard__Value__Value* params) {
{{range .Methods}}   if (strcmp(method, {{cstr .Name}}) == 0) {
      handle_{{.Symbol}}(sock, id, params);
      return;
   }
{{end}}   send_error_response(sock, id, "Unknown method");
}

extern "C" PluginRegistration* plugin_register(void) {
   static PluginRegistration registration;
   build_plugin_description();
   registration.rbus_elements = {{.Symbol}}_elements;
   registration.rbus_element_count = sizeof({{.Symbol}}_elements) / sizeof({{.Symbol}}_elements[0]);
   registration.plugin_description = &plugin_description;
   return &registration;
}
`))

var cmakeTmpl = template.Must(template.New("CMakeLists.txt").Funcs(funcs).Parse(`cmake_minimum_required(VERSION 3.16)
project({{.Symbol}}_plugin CXX)

set(CMAKE_CXX_STANDARD 17)
set(CMAKE_CXX_STANDARD_REQUIRED ON)

find_package(PkgConfig REQUIRED)
pkg_check_modules(RBUS REQUIRED rbus)
pkg_check_modules(PROTOBUF_C REQUIRED libprotobuf-c)

add_library({{.Symbol}}_plugin SHARED
   {{.Symbol}}_plugin.cpp
)

target_include_directories({{.Symbol}}_plugin PRIVATE
   ${CMAKE_CURRENT_SOURCE_DIR}
   ${RBUS_INCLUDE_DIRS}
   ${PROTOBUF_C_INCLUDE_DIRS}
)

target_link_libraries({{.Symbol}}_plugin
   ${RBUS_LIBRARIES}
   ${PROTOBUF_C_LIBRARIES}
)

install(TARGETS {{.Symbol}}_plugin LIBRARY DESTINATION lib/blizzard/plugins)
`))
