package gfx

const (
	meshVertexShader = `
	#version 410
	layout(location = 0) in vec3 position;
	layout(location = 1) in vec3 normal;

	uniform mat4 model;
	uniform mat4 view;
	uniform mat4 projection;
	uniform mat3 normalMatrix;
	uniform float displacementScale;
	uniform float time;

	out vec3 vNormal;
	out float vDisplacement;

	float hash(vec3 p) {
		p = fract(p * 0.3183099 + 0.1);
		p *= 17.0;
		return fract(p.x * p.y * p.z * (p.x + p.y + p.z));
	}

	float noise(vec3 x) {
		vec3 i = floor(x);
		vec3 f = fract(x);
		f = f * f * (3.0 - 2.0 * f);
		return mix(
			mix(mix(hash(i + vec3(0, 0, 0)), hash(i + vec3(1, 0, 0)), f.x),
				mix(hash(i + vec3(0, 1, 0)), hash(i + vec3(1, 1, 0)), f.x), f.y),
			mix(mix(hash(i + vec3(0, 0, 1)), hash(i + vec3(1, 0, 1)), f.x),
				mix(hash(i + vec3(0, 1, 1)), hash(i + vec3(1, 1, 1)), f.x), f.y),
			f.z);
	}

	void main() {
		vDisplacement = displacementScale * noise(position * 0.5 + vec3(time * 0.3));
		vNormal = normalize(normalMatrix * normal);
		vec3 p = position + normal * vDisplacement;
		gl_Position = projection * view * model * vec4(p, 1.0);
	}`

	meshFragmentShader = `
	#version 410
	uniform vec3 color;
	uniform vec3 emissive;
	uniform vec3 ambient;
	uniform vec3 lightDir;
	uniform vec3 lightColor;

	in vec3 vNormal;
	in float vDisplacement;
	out vec4 fragColor;

	void main() {
		float d = max(dot(normalize(vNormal), -lightDir), 0.0);
		vec3 c = color * (ambient + lightColor * d) + emissive * (1.0 + vDisplacement);
		fragColor = vec4(c, 1.0);
	}`

	quadVertexShader = `
	#version 410
	layout(location = 0) in vec2 position;
	out vec2 uv;

	void main() {
		uv = position * 0.5 + 0.5;
		gl_Position = vec4(position, 0.0, 1.0);
	}`

	brightFragmentShader = `
	#version 410
	uniform sampler2D tex;
	uniform float threshold;
	in vec2 uv;
	out vec4 fragColor;

	void main() {
		vec4 c = texture(tex, uv);
		float l = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
		fragColor = mix(vec4(0.0), c, smoothstep(threshold, threshold + 0.01, l));
	}`

	// one direction of a separable 7 tap gaussian
	blurFragmentShader = `
	#version 410
	uniform sampler2D tex;
	uniform vec2 direction;
	uniform vec2 resolution;
	in vec2 uv;
	out vec4 fragColor;

	void main() {
		vec2 off1 = vec2(1.411764705882353) * direction / resolution;
		vec2 off2 = vec2(3.2941176470588234) * direction / resolution;
		vec2 off3 = vec2(5.176470588235294) * direction / resolution;

		vec4 color = texture(tex, uv) * 0.1964825501511404;
		color += texture(tex, uv + off1) * 0.2969069646728344;
		color += texture(tex, uv - off1) * 0.2969069646728344;
		color += texture(tex, uv + off2) * 0.09447039785044732;
		color += texture(tex, uv - off2) * 0.09447039785044732;
		color += texture(tex, uv + off3) * 0.010381362401148057;
		color += texture(tex, uv - off3) * 0.010381362401148057;
		fragColor = color;
	}`

	combineFragmentShader = `
	#version 410
	uniform sampler2D blur0;
	uniform sampler2D blur1;
	uniform sampler2D blur2;
	uniform sampler2D blur3;
	uniform sampler2D blur4;
	uniform float strength;
	uniform float radius;
	in vec2 uv;
	out vec4 fragColor;

	float factor(float f) {
		return mix(f, 1.2 - f, radius);
	}

	void main() {
		fragColor = strength * (
			factor(1.0) * texture(blur0, uv) +
			factor(0.8) * texture(blur1, uv) +
			factor(0.6) * texture(blur2, uv) +
			factor(0.4) * texture(blur3, uv) +
			factor(0.2) * texture(blur4, uv));
	}`

	outputFragmentShader = `
	#version 410
	uniform sampler2D scene;
	uniform sampler2D bloom;
	uniform int hasBloom;
	uniform float exposure;
	in vec2 uv;
	out vec4 fragColor;

	vec3 rrtAndOdtFit(vec3 v) {
		vec3 a = v * (v + 0.0245786) - 0.000090537;
		vec3 b = v * (0.983729 * v + 0.4329510) + 0.238081;
		return a / b;
	}

	vec3 acesFilmic(vec3 c) {
		const mat3 inputMat = mat3(
			0.59719, 0.07600, 0.02840,
			0.35458, 0.90834, 0.13383,
			0.04823, 0.01566, 0.83777);
		const mat3 outputMat = mat3(
			1.60475, -0.10208, -0.00327,
			-0.53108, 1.10813, -0.07276,
			-0.07367, -0.00605, 1.07602);
		c *= exposure / 0.6;
		c = outputMat * rrtAndOdtFit(inputMat * c);
		return clamp(c, 0.0, 1.0);
	}

	vec3 toSRGB(vec3 c) {
		return mix(1.055 * pow(c, vec3(1.0 / 2.4)) - 0.055, c * 12.92, vec3(lessThanEqual(c, vec3(0.0031308))));
	}

	void main() {
		vec3 c = texture(scene, uv).rgb;
		if (hasBloom != 0) {
			c += texture(bloom, uv).rgb;
		}
		fragColor = vec4(toSRGB(acesFilmic(c)), 1.0);
	}`
)
