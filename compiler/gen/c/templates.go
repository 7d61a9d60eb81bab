package cgen

import "text/template"

// pluginTmpl renders <plugin>_plugin.c: descriptor builders, the plugin
// description, the socket dispatch surface and the rbus method table.
var pluginTmpl = template.Must(template.New("plugin.c").Funcs(funcs).Parse(`{{.Header}}

#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <stdint.h>
#include <stdbool.h>
#include <unistd.h>

#include "blizzard_rbus_plugin.h"
#include "{{.Symbol}}_impl.h"

static void send_frame(int sock, uint64_t id, uint8_t status, const uint8_t* data, size_t len) {
   uint8_t head[13];
   uint32_t n = (uint32_t)len;
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

static void send_error_response(int sock, uint64_t id, const char* message) {
   send_frame(sock, id, 1, (const uint8_t*)message, strlen(message));
}

static void send_success_response(int sock, uint64_t id, Google__Protobuf__Any* result) {
   if (!result) {
      send_frame(sock, id, 0, NULL, 0);
      return;
   }
   size_t size = google__protobuf__any__get_packed_size(result);
   uint8_t* buf = malloc(size);
   if (!buf) {
      send_error_response(sock, id, "Malloc failed for response frame");
      return;
   }
   google__protobuf__any__pack(result, buf);
   send_frame(sock, id, 0, buf, size);
   free(buf);
}

/*
 * Schema descriptors. Each builder assembles the static descriptor tree
 * for one method side and frames it into a protobuf Any envelope. The
 * trees are static so the builders are cheap to call; plugin_register()
 * runs them once.
 */
{{range .Methods}}
static Google__Protobuf__Any* build_method_{{.Index}}_param_description(void) {
{{indent 1 .ParamInitCode}}{{indent 1 .ParamAnyCode}}   return &{{.ParamAnyVar}};
}

static Google__Protobuf__Any* build_method_{{.Index}}_result_description(void) {
{{indent 1 .ResultInitCode}}{{indent 1 .ResultAnyCode}}   return &{{.ResultAnyVar}};
}
{{end}}
static Blizzard__Plugin__Description__MethodDescription method_descriptions[{{len .Methods}}];
static Blizzard__Plugin__Description__MethodDescription* method_description_ptrs[{{len .Methods}}];
static Blizzard__Plugin__Description__PluginDescription plugin_description;

static void build_plugin_description(void) {
{{range .Methods}}   blizzard__plugin__description__method_description__init(&method_descriptions[{{.Index}}]);
   method_descriptions[{{.Index}}].name = {{cstr .Name}};
   method_descriptions[{{.Index}}].description = {{cstr .Description}};
   method_descriptions[{{.Index}}].parameters = build_method_{{.Index}}_param_description();
   method_descriptions[{{.Index}}].result = build_method_{{.Index}}_result_description();
   method_description_ptrs[{{.Index}}] = &method_descriptions[{{.Index}}];
{{end}}   blizzard__plugin__description__plugin_description__init(&plugin_description);
   plugin_description.name = {{cstr .Plugin.Name}};
   plugin_description.version = {{cstr .Plugin.Version}};
   plugin_description.description = {{cstr .Plugin.Description}};
   plugin_description.n_methods = {{len .Methods}};
   plugin_description.methods = method_description_ptrs;
}

/*
 * Socket request handlers. Each handler validates the wire value
 * against the method's parameter schema, extracts the native bindings
 * and answers on the same socket.
 */
{{range .Methods}}
static void handle_{{.Symbol}}(int sock, uint64_t id, Blizzard__Value__Value* params) {
{{indent 1 .ParamUnpackCode}}{{if .ResultPackCode}}{{$r := index .Results 0}}   {{$r.CType}} result = {{$r.Init}};
{{if $r.AutoFrom}}   result = {{.Symbol}}_param_{{$r.AutoFrom}};
{{end}}{{indent 1 .ResultPackCode}}   send_success_response(sock, id, response_any);
{{else}}   send_success_response(sock, id, NULL);
{{end}}}
{{end}}
void {{.Symbol}}_dispatch(int sock, uint64_t id, const char* method, Blizzard__Value__Value* params) {
{{range .Methods}}   if (strcmp(method, {{cstr .Name}}) == 0) {
      handle_{{.Symbol}}(sock, id, params);
      return;
   }
{{end}}   send_error_response(sock, id, "Unknown method");
}

/*
 * rbus method handlers. The bus marshals parameters as rbusObject
 * properties; each handler pulls out the declared inputs, calls the
 * implementation and publishes its out-parameters.
 */
{{range .Methods}}
static rbusError_t {{$.Symbol}}_{{.Symbol}}_handler(rbusHandle_t handle, char const* methodName, rbusObject_t inParams, rbusObject_t outParams, rbusMethodAsyncHandle_t asyncHandle) {
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
static const rbusDataElement_t {{.Symbol}}_elements[] = {
{{range .Methods}}   {"Device.{{camel $.Plugin.Name}}.{{camel .Name}}()", RBUS_ELEMENT_TYPE_METHOD, {NULL, NULL, NULL, NULL, NULL, {{$.Symbol}}_{{.Symbol}}_handler}},
{{end}}};

PluginRegistration* plugin_register(void) {
   static PluginRegistration registration;
   build_plugin_description();
   registration.rbus_elements = {{.Symbol}}_elements;
   registration.rbus_element_count = sizeof({{.Symbol}}_elements) / sizeof({{.Symbol}}_elements[0]);
   registration.plugin_description = &plugin_description;
   return &registration;
}
`))

// implHeaderTmpl renders <plugin>_impl.h: one prototype per method.
var implHeaderTmpl = template.Must(template.New("impl.h").Funcs(funcs).Parse(`{{.Header}}

#ifndef {{upper .Symbol}}_IMPL_H
#define {{upper .Symbol}}_IMPL_H

#include <stdbool.h>
#include <stdint.h>

#include <rbus.h>

{{range .Methods}}/* {{if .Description}}{{.Description}}{{else}}{{.Name}}{{end}} */
int {{$.Symbol}}_{{.Symbol}}({{implParams .}});

{{end}}#endif
`))

// implTmpl renders <plugin>_impl.c: stub bodies for the user to fill
// in. Auto-wired results echo their matching parameter so a freshly
// generated plugin answers meaningfully out of the box.
var implTmpl = template.Must(template.New("impl.c").Funcs(funcs).Parse(`{{.Header}}

#include <stdlib.h>
#include <string.h>

#include "{{.Symbol}}_impl.h"

{{range .Methods}}int {{$.Symbol}}_{{.Symbol}}({{implParams .}}) {
{{range .Props}}   (void){{.Name}};
{{end}}{{range .Results}}{{if .AutoFrom}}   *{{.Name}} = {{autoExpr .}};
{{else}}   (void){{.Name}};
{{end}}{{if .Len}}   *{{.Len.Name}} = 0;
{{end}}{{end}}   return 0;
}

{{end}}`))

// cmakeTmpl renders the build descriptor for the generated sources.
var cmakeTmpl = template.Must(template.New("CMakeLists.txt").Funcs(funcs).Parse(`cmake_minimum_required(VERSION 3.16)
project({{.Symbol}}_plugin C)

set(CMAKE_C_STANDARD 11)
set(CMAKE_C_STANDARD_REQUIRED ON)

find_package(PkgConfig REQUIRED)
pkg_check_modules(RBUS REQUIRED rbus)
pkg_check_modules(PROTOBUF_C REQUIRED libprotobuf-c)

add_library({{.Symbol}}_plugin SHARED
   {{.Symbol}}_plugin.c
   {{.Symbol}}_impl.c
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
